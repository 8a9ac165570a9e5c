package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// newCacheCmd creates the cache command for managing the response cache
// used by URL sources.
func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the controller response cache",
	}
	cmd.AddCommand(newCachePathCmd())
	cmd.AddCommand(newCacheClearCmd())
	return cmd
}

// newCachePathCmd prints the cache directory location.
func newCachePathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			printFile(defaultCacheDir())
			return nil
		},
	}
}

// newCacheClearCmd removes all cached controller responses.
func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached controller responses",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			dir := defaultCacheDir()
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("Cache is already empty")
				return nil
			}
			if err := os.RemoveAll(dir); err != nil {
				printError("Failed to clear cache: %v", err)
				return err
			}
			printSuccess("Cleared cache")
			printDetail("%s", dir)
			return nil
		},
	}
}
