package status

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/storefront-client/internal/business"
	"github.com/openkcm/storefront-client/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"status",
		"Storefront state",
		"Prints the session state, cart totals and favorites of the configured slot owner as YAML.",
		buildInfo,
		cmdutils.RunAsJob,
		business.StatusMain,
	)
}
