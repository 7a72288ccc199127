package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTutor/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name] [link]",
	Short: "Switch to a profile and start chatting",
	Long:  `Make the specified profile the active one and immediately start the chat client.`,
	Args:  cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		profileName := args[0]

		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		if err := cfg.UseProfile(profileName); err != nil {
			log.Fatalf("Cannot use profile: %v", err)
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		runChat("", args[1:])
	},
}

func init() {
	useCmd.Flags().StringVarP(&questionFlag, "question", "q", "", "Prompt to pre-fill")
	rootCmd.AddCommand(useCmd)
}
