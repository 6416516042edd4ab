package vaccinations

// Vaccination pertenece a un único animal (AnimalID = ID numérico del animal).
// Las fechas se guardan como texto YYYY-MM-DD, igual que llegan del formulario.
type Vaccination struct {
	ID       int64
	AnimalID int64

	VaccineName     string
	VaccinationDate string
	Veterinarian    string
	NextDueDate     string
	Notes           string
}
