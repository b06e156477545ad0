package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"worktrack-cli/internal/api"
)

// writeErr prints the error to stderr and returns it so cobra sets the exit
// code. Validation failures get their field breakdown printed one per line,
// the way a form would show them inline.
func writeErr(cmd *cobra.Command, err error) error {
	var verr *api.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(cmd.ErrOrStderr(), "validation failed:")
		for field, msg := range verr.Fields {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", field, msg)
		}
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
