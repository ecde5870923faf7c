package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/fixrec/fixrec"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "fixrec",
	Short: "Inspect fixed-shape record buffer files",
	Long: `fixrec inspects files holding fixed-shape binary records. Record
headers are self-describing (typeId, groupId, bodyLength), so slots can be
walked without knowing the schema that produced them.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelWarn
		if v, _ := cmd.Flags().GetBool("verbose"); v {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("file", "f", "", "buffer file to inspect")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug logging")
	_ = rootCmd.MarkPersistentFlagRequired("file")
}

// openBuffer maps the --file argument read-only.
func openBuffer(cmd *cobra.Command) (*fixrec.Buffer, error) {
	path, _ := cmd.Flags().GetString("file")
	size, err := fixrec.MapFileSize(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if size == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}
	buf, err := fixrec.MapFile(path, size, false)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	slog.Debug("mapped buffer file", "path", path, "size", size)
	return buf, nil
}
