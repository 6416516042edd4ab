package helplines

// Helpline es una entrada del directorio estático de ayuda animal.
type Helpline struct {
	ID          int64
	Name        string
	Type        string
	Phone       string
	Hours       string
	Coverage    string
	Description string
}
