package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/aryankumar/swarmwatch/internal/output"
	"github.com/aryankumar/swarmwatch/pkg/version"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newVersionCmd creates the version command
func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Display detailed version information for the swarmwatch CLI",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVersion(cmd.OutOrStdout())
		},
	}

	return cmd
}

func runVersion(w io.Writer) error {
	info := version.Get()

	switch name := viper.GetString("output"); name {
	case "":
		fmt.Fprintln(w, info.String())
		return nil
	case string(output.FormatTable):
		return versionTable(w, info)
	default:
		format, err := output.ParseFormat(name)
		if err != nil {
			return err
		}
		return output.NewFormatter(format).Format(w, info)
	}
}

func versionTable(w io.Writer, info version.Info) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "COMPONENT\tVALUE")
	fmt.Fprintf(tw, "Version\t%s\n", info.Version)
	fmt.Fprintf(tw, "Commit\t%s\n", info.Commit)
	fmt.Fprintf(tw, "Build Time\t%s\n", info.BuildTime)
	fmt.Fprintf(tw, "Go Version\t%s\n", info.GoVersion)
	fmt.Fprintf(tw, "Platform\t%s\n", info.Platform)
	return tw.Flush()
}
