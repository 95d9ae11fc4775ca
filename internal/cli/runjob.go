package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"modelsvc/internal/client"
	"modelsvc/internal/common/fsutil"
)

func newRunJobCmd(rt *runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run-job",
		Short: "Run a file job on a running model service",
		Long: "Checks GET /status and then posts a file job to /run.\n\n" +
			"Input and output are paths in the service's filesystem. When the service\n" +
			"runs in a container, use the container side of the mounted volumes.",
		Example: "  modelsvc run-job --url localhost:8080 -i /data/input -o /data/output",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			url, input, output := rt.v.GetString("url"), rt.v.GetString("input"), rt.v.GetString("output")
			if url == "" || input == "" || output == "" {
				return errors.New("--url, --input and --output are required")
			}
			if !fsutil.IsDir(input) {
				return fmt.Errorf("input must be an existing directory: %s", input)
			}
			if fsutil.PathExists(output) && !fsutil.IsDir(output) {
				return fmt.Errorf("output must be a directory: %s", output)
			}
			c, err := client.New(url, client.WithLogger(rt.log))
			if err != nil {
				return err
			}
			if _, err := c.RunJob(cmd.Context(), input, output); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Output should have been written to: %s\n", output)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("url", "", "Model service URL (scheme defaults to http)")
	f.StringP("input", "i", "", "Input directory")
	f.StringP("output", "o", "", "Output directory")
	return cmd
}
