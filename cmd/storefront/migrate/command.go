package migrate

import (
	"github.com/spf13/cobra"

	"github.com/openkcm/storefront-client/internal/business"
	"github.com/openkcm/storefront-client/internal/cmdutils"
)

func Cmd(buildInfo string) *cobra.Command {
	return cmdutils.CobraCommand(
		"migrate",
		"Storefront durable slot migrations",
		"Applies the database migrations of the PostgreSQL slot backend.",
		buildInfo,
		cmdutils.RunAsJob,
		business.MigrateMain,
	)
}
