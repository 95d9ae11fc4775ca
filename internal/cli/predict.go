package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"modelsvc/internal/manager"
)

func newPredictCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "predict <input.json>... <output.json>",
		Short: "Run the model locally on input files and write the result",
		Long: "Loads the model in-process, merges the JSON objects of the input files\n" +
			"(later files win), predicts and writes the result to the output file.",
		Example: "  modelsvc predict ./input.json ./results.json",
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, output := args[:len(args)-1], args[len(args)-1]
			md, err := loadMetadata(rt.cfg)
			if err != nil {
				return err
			}
			factory, err := buildFactory(rt.reg, rt.cfg, md)
			if err != nil {
				return err
			}
			mdl, err := factory()
			if err != nil {
				return err
			}
			mgr := manager.NewWithConfig(manager.ManagerConfig{
				Model:     mdl,
				Name:      rt.cfg.Model,
				Metadata:  md,
				Publisher: manager.NewLogPublisher(rt.log),
				Logger:    &rt.log,
			})
			if err := mgr.Initialize(cmd.Context()); err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(output), 0o755); err != nil {
				return fmt.Errorf("create output directory: %w", err)
			}
			if err := mgr.RunFiles(cmd.Context(), inputs, []string{output}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Output written to: %s\n", output)
			return nil
		},
	}
}
