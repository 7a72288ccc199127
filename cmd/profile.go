package cmd

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/Rorical/RoriTutor/internal/config"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage endpoint profiles",
	Long:  `Manage the endpoints RoriTutor talks to: the hosted TutorGPT backend or an OpenAI-compatible API.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		fmt.Printf("Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Println("Available Profiles:")
		for _, name := range profileNames(cfg, "") {
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Printf("  %s%s\n", name, marker)
			printProfile(cfg.Profiles[name], "    ")
			fmt.Println()
		}
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		profile, exists := cfg.Profiles[args[0]]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", args[0])
		}

		fmt.Printf("Profile: %s\n", args[0])
		printProfile(profile, "")
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label:    "Profile name",
				Validate: nonEmpty,
			}
			var err error
			profileName, err = prompt.Run()
			if err != nil {
				log.Fatalf("Prompt failed: %v", err)
			}
		}

		if _, exists := cfg.Profiles[profileName]; exists {
			log.Fatalf("Profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.DefaultProfile())
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' added successfully!\n", profileName)
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		profileName := profileArgOrSelect(cfg, args, "Select profile to edit", "")

		profile, exists := cfg.Profiles[profileName]
		if !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		profile, err := promptProfile(profile)
		if err != nil {
			log.Fatalf("Prompt failed: %v", err)
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' updated successfully!\n", profileName)
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()
		profileName := profileArgOrSelect(cfg, args, "Select profile to delete", "")

		if _, exists := cfg.Profiles[profileName]; !exists {
			log.Fatalf("Profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Println("Deletion cancelled")
			return
		}

		removeProfile(cfg, profileName)

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Profile '%s' deleted successfully!\n", profileName)
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := mustLoadConfig()

		if len(args) == 0 && len(profileNames(cfg, cfg.ActiveProfile)) == 0 {
			fmt.Println("No other profiles available to switch to")
			return
		}
		profileName := profileArgOrSelect(cfg, args, "Select profile to switch to", cfg.ActiveProfile)

		if err := cfg.UseProfile(profileName); err != nil {
			log.Fatalf("Cannot switch profile: %v", err)
		}

		if err := cfg.Save(); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}

		fmt.Printf("Switched to profile '%s'\n", profileName)
	},
}

func mustLoadConfig() *config.Config {
	if err := config.LoadEnv(); err != nil {
		log.Fatalf("Failed to load environment: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

// profileNames returns the sorted profile names, leaving out exclude.
func profileNames(cfg *config.Config, exclude string) []string {
	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		if name != exclude {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

func profileArgOrSelect(cfg *config.Config, args []string, label, exclude string) string {
	if len(args) > 0 {
		return args[0]
	}

	names := profileNames(cfg, exclude)
	if len(names) == 0 {
		log.Fatalf("No profiles available")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, profileName, err := prompt.Run()
	if err != nil {
		log.Fatalf("Selection failed: %v", err)
	}
	return profileName
}

// removeProfile deletes name. Deleting the active profile activates another
// one, or a fresh default profile when it was the last.
func removeProfile(cfg *config.Config, name string) {
	delete(cfg.Profiles, name)

	if cfg.ActiveProfile != name {
		return
	}

	if remaining := profileNames(cfg, ""); len(remaining) > 0 {
		cfg.ActiveProfile = remaining[0]
		return
	}
	cfg.ActiveProfile = "default"
	cfg.Profiles["default"] = config.DefaultProfile()
}

func promptProfile(profile config.Profile) (config.Profile, error) {
	providers := []string{config.ProviderAsk, config.ProviderOpenAI}
	cursor := 0
	if profile.Provider == config.ProviderOpenAI {
		cursor = 1
	}
	providerSelect := promptui.Select{
		Label:     "Provider",
		Items:     providers,
		CursorPos: cursor,
	}
	_, provider, err := providerSelect.Run()
	if err != nil {
		return profile, err
	}
	profile.Provider = provider

	baseURLLabel := "Base URL"
	if provider == config.ProviderOpenAI {
		baseURLLabel = "Base URL (optional)"
		if profile.BaseURL == config.DefaultBaseURL {
			profile.BaseURL = ""
		}
	}
	baseURLPrompt := promptui.Prompt{
		Label:   baseURLLabel,
		Default: profile.BaseURL,
	}
	if profile.BaseURL, err = baseURLPrompt.Run(); err != nil {
		return profile, err
	}

	if provider == config.ProviderOpenAI {
		apiKeyPrompt := promptui.Prompt{
			Label:   "API Key",
			Default: profile.APIKey,
			Mask:    '*',
		}
		if profile.APIKey, err = apiKeyPrompt.Run(); err != nil {
			return profile, err
		}

		model := profile.Model
		if model == "" {
			model = config.DefaultModel
		}
		modelPrompt := promptui.Prompt{
			Label:   "Model",
			Default: model,
		}
		if profile.Model, err = modelPrompt.Run(); err != nil {
			return profile, err
		}
	}

	markdownPrompt := promptui.Prompt{
		Label:     "Render answers as markdown",
		IsConfirm: true,
	}
	_, err = markdownPrompt.Run()
	switch {
	case err == nil:
		profile.Markdown = true
	case errors.Is(err, promptui.ErrAbort):
		profile.Markdown = false
	default:
		return profile, err
	}

	return profile, nil
}

func printProfile(profile config.Profile, indent string) {
	provider := profile.Provider
	if provider == "" {
		provider = config.ProviderAsk
	}
	fmt.Printf("%sProvider: %s\n", indent, provider)
	if profile.BaseURL != "" {
		fmt.Printf("%sBase URL: %s\n", indent, profile.BaseURL)
	}
	if provider == config.ProviderOpenAI {
		fmt.Printf("%sModel: %s\n", indent, profile.Model)
		hasKey := "Not set"
		if profile.APIKey != "" {
			hasKey = "Set (hidden)"
		}
		fmt.Printf("%sAPI Key: %s\n", indent, hasKey)
	}
	fmt.Printf("%sMarkdown: %t\n", indent, profile.Markdown)
}

func nonEmpty(input string) error {
	if input == "" {
		return errors.New("name cannot be empty")
	}
	return nil
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
}
