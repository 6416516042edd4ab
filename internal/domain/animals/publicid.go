package animals

import (
	"fmt"
	"regexp"
)

var publicIDPattern = regexp.MustCompile(`^SP-\d{4}-\d{6,}$`)

// FormatPublicID arma el identificador público: SP-<año>-<secuencia con 6 dígitos mínimo>.
func FormatPublicID(year int, seq int64) string {
	return fmt.Sprintf("SP-%04d-%06d", year, seq)
}

func IsPublicID(s string) bool {
	return publicIDPattern.MatchString(s)
}
