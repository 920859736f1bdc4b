package chat

// DefaultRules are checked in order. Emergency comes after the specific
// topics, so "severe rash" is answered as a symptom question.
var DefaultRules = []Rule{
	{
		Topic: "appointments",
		Match: Keywords("appointment", "booking", "book", "schedule"),
		Reply: "You can book from the Appointments page: pick a doctor, a weekday within the next 30 days " +
			"and a free time between 9:00 and 17:00. New bookings start as pending until the clinic confirms them.",
	},
	{
		Topic: "allergies",
		Match: Keywords("allergy", "allergic", "reaction"),
		Reply: "Allergies happen when your immune system overreacts to something harmless like pollen, dust or " +
			"certain foods. Our allergists can identify your triggers and build a treatment plan with you.",
	},
	{
		Topic: "symptoms",
		Match: Keywords("symptom", "sneezing", "runny nose", "itchy", "rash", "breathing"),
		Reply: "Common allergy symptoms include sneezing, a runny or stuffy nose, itchy eyes and skin rashes. " +
			"If symptoms persist or you have trouble breathing, please book a visit so a doctor can evaluate you.",
	},
	{
		Topic: "medications",
		Match: Keywords("medication", "medicine", "claritin", "zyrtec", "benadryl", "flonase"),
		Reply: "Over-the-counter options such as antihistamines (Claritin, Zyrtec, Benadryl) and nasal sprays " +
			"(Flonase) help many patients. Talk to your doctor before starting or combining medications.",
	},
	{
		Topic: "forms",
		Match: Keywords("form", "intake", "paperwork"),
		Reply: "Please complete your profile and intake forms before your first visit. " +
			"Having your insurance card and medication list ready speeds things up.",
	},
	{
		Topic: "testing",
		Match: Keywords("test", "testing"),
		Reply: "We offer skin prick and blood tests to pinpoint allergy triggers. Some antihistamines must be " +
			"stopped several days before skin testing; the clinic will send instructions with your confirmation.",
	},
	{
		Topic: "emergency",
		Match: Keywords("emergency", "epipen", "severe", "anaphylaxis"),
		Reply: "If you are having a severe reaction, use your EpiPen if prescribed and call 911 immediately. " +
			"This assistant cannot help in an emergency.",
	},
	{
		Topic: "general",
		Match: Keywords("health", "wellness", "general"),
		Reply: "Staying on top of triggers, keeping indoor air clean and following your treatment plan go a long " +
			"way. Your doctor can give advice tailored to you at your next visit.",
	},
}

// DefaultFallback answers anything no rule recognises.
var DefaultFallback = Rule{
	Topic: "fallback",
	Reply: "I'm not sure I understood that. I can help with booking appointments, allergy symptoms, " +
		"medications, intake forms and testing. For anything urgent please call the clinic.",
}

// NewDefaultResponder uses DefaultRules and DefaultFallback.
func NewDefaultResponder() *Responder {
	return NewResponder(DefaultRules, DefaultFallback)
}
