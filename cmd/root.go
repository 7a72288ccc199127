package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTutor/internal/app"
	"github.com/Rorical/RoriTutor/internal/config"
)

var (
	questionFlag string
	profileFlag  string
	debugFlag    bool
)

var rootCmd = &cobra.Command{
	Use:   "roritutor [link]",
	Short: "Terminal client for TutorGPT",
	Long: `RoriTutor is a terminal chat client for TutorGPT.

The optional link is a TutorGPT page link (or just its query string); its
"question" parameter pre-fills the prompt. --question sets the text directly.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		runChat(profileFlag, args)
	},
}

// initialQuestion picks the pre-filled prompt: --question wins over a link.
func initialQuestion(question string, args []string) string {
	if question != "" {
		return question
	}
	if len(args) > 0 {
		return config.QuestionFromLink(args[0])
	}
	return ""
}

func runChat(profile string, args []string) {
	application, err := app.NewApplication(app.Options{
		Question: initialQuestion(questionFlag, args),
		Profile:  profile,
		Debug:    debugFlag,
	})
	if err != nil {
		log.Fatalf("Failed to create application: %v", err)
	}
	defer application.Stop()

	if err := application.Start(); err != nil {
		log.Printf("Application error: %v", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution error: %v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Write debug entries to the log file")
	rootCmd.Flags().StringVarP(&questionFlag, "question", "q", "", "Prompt to pre-fill")
	rootCmd.Flags().StringVarP(&profileFlag, "profile", "p", "", "Profile to use for this session")

	rootCmd.AddCommand(profileCmd)
}
