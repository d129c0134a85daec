package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/inet/internal/validator"
)

// Validate checks a definition file and reports agents the root cannot
// reach. Unreachable agents are a warning, not an error.
func Validate(path string, out io.Writer) error {
	def, err := ReadDefinition(path)
	if err != nil {
		return err
	}
	if err := validator.Validate(def); err != nil {
		return err
	}
	if orphans := validator.Unreachable(def); len(orphans) > 0 {
		printSystemMessage(out, "Warning: unreachable from root '%s': %s", def.Root, strings.Join(orphans, ", "))
	}
	fmt.Fprintf(out, "Net '%s' is valid! ✅\n", def.Name)
	return nil
}
