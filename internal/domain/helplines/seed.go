package helplines

// Directorio inicial (Bengaluru). Se inserta una sola vez, cuando el directorio está vacío.
var DefaultDirectory = []Helpline{
	{
		Name:        "BBMP Animal Control Center",
		Type:        "24/7 Emergency Response",
		Phone:       "+91 80 2222 5384",
		Hours:       "Available 24/7",
		Coverage:    "Bengaluru City Corporation",
		Description: "Official BBMP animal control for emergency response to injured, dangerous, or distressed animals across Bengaluru",
	},
	{
		Name:        "Cessna Lifeline Veterinary Hospital",
		Type:        "Medical Emergency Support",
		Phone:       "+91 80 2845 5555",
		Hours:       "Daily 9AM - 9PM",
		Coverage:    "Sarjapur Road, Electronic City",
		Description: "24/7 emergency veterinary care and treatment for stray animals with specialized trauma unit",
	},
	{
		Name:        "Karuna Animal Shelter",
		Type:        "Rescue & Rehabilitation",
		Phone:       "+91 98450 44444",
		Hours:       "Daily 8AM - 6PM",
		Coverage:    "Peenya, Rajajinagar, Malleshwaram",
		Description: "Non-profit animal rescue organization providing shelter, rehabilitation and adoption services",
	},
	{
		Name:        "CUPA Animal Ambulance",
		Type:        "Mobile Emergency Unit",
		Phone:       "+91 99000 25000",
		Hours:       "Available 24/7",
		Coverage:    "All Bengaluru Districts",
		Description: "Compassion Unlimited Plus Action (CUPA) mobile veterinary services and emergency animal transport",
	},
	{
		Name:        "Krupa Animal Hospital",
		Type:        "Veterinary Medical Care",
		Phone:       "+91 80 2334 4321",
		Hours:       "Daily 10AM - 8PM",
		Coverage:    "Jayanagar, BTM Layout, Koramangala",
		Description: "Full-service veterinary hospital offering medical care, surgery, and vaccination services for stray animals",
	},
}
