package faq

// Seed provides the static knowledge base consulted by the chat widget.
func Seed() []Entry {
	return []Entry{
		{
			ID:       "greeting",
			Triggers: []string{"hello", "hi", "hey", "good morning", "good evening", "namaste"},
			Response: "Hello! Welcome to SkillForge Academy. Ask me about our courses, fees, placements or how to register.",
		},
		{
			ID:       "courses",
			Triggers: []string{"course", "courses", "program", "training", "curriculum", "syllabus", "learn"},
			Response: "We offer industry-focused programs in Full Stack Development, Data Science, Cloud & DevOps, and Embedded Systems. Each course blends live classes with hands-on projects.",
		},
		{
			ID:       "fees",
			Triggers: []string{"fee", "fees", "price", "cost", "payment", "emi", "installment"},
			Response: "Course fees vary by program and start at INR 14,999. We support one-time payment and monthly installments. Upload your payment receipt on the registration form to confirm your seat.",
		},
		{
			ID:       "registration",
			Triggers: []string{"register", "registration", "enroll", "enrol", "sign up", "admission", "join"},
			Response: "To register, fill in the registration form on this page with your details and attach your payment receipt. Our team confirms your enrollment within one working day.",
		},
		{
			ID:       "placement",
			Triggers: []string{"placement", "job", "career", "hiring", "salary", "internship", "company"},
			Response: "Our placement cell works with 200+ hiring partners. Every course includes interview preparation, mock interviews and referrals after course completion.",
		},
		{
			ID:       "duration",
			Triggers: []string{"duration", "how long", "months", "weeks", "timing", "schedule", "batch"},
			Response: "Courses run 3 to 6 months with weekday and weekend batches. Live sessions are recorded so you never miss a class.",
		},
		{
			ID:       "certificate",
			Triggers: []string{"certificate", "certification", "certified"},
			Response: "Yes, you receive an industry-recognized completion certificate, plus project letters for the capstone work you ship during the course.",
		},
		{
			ID:       "contact",
			Triggers: []string{"contact", "phone", "email", "reach", "support", "talk", "call"},
			Response: "You can reach the team through the contact form on this site, and we reply within 24 hours on working days.",
		},
		{
			ID:       "thanks",
			Triggers: []string{"thank", "thanks", "thx", "great", "awesome"},
			Response: "You're welcome! Happy to help. Is there anything else you'd like to know?",
		},
		{
			ID:       "bye",
			Triggers: []string{"bye", "goodbye", "see you", "later"},
			Response: "Goodbye! Hope to see you in one of our batches soon.",
		},
	}
}
