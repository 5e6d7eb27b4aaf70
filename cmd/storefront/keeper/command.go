package keeper

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/storefront-client/internal/business"
	"github.com/openkcm/storefront-client/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"keeper",
		"Storefront session keeper",
		"Refreshes the persisted access credential of the configured slot owner before it expires.",
		buildInfo,
		cmdutils.RunAsService,
		business.SessionKeeperMain,
	)
}
