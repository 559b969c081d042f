package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/abexport/abexport/internal/config"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Store your API key",
	Long: `Prompt for an API key and write it to the config file in your home
directory. Run this once before the first export.

The key can also be supplied per-run via ABEXPORT_API_KEY, which takes
precedence over the config file.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, args []string) error {
	prompt := promptui.Prompt{
		Label: "API key",
		Mask:  '*',
	}

	key, err := prompt.Run()
	if err != nil {
		if err == promptui.ErrInterrupt {
			os.Exit(1)
		}
		return fmt.Errorf("failed to read API key: %w", err)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("no API key entered, nothing saved")
	}

	path, err := config.Save(config.Config{APIKey: key})
	if err != nil {
		return err
	}

	fmt.Printf("API key saved to %s\n", path)
	fmt.Println()
	fmt.Println("Next: abexport export <experiment-id>")
	return nil
}
