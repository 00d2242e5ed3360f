package main

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jingkaihe/skillkit/pkg/presenter"
	"github.com/jingkaihe/skillkit/pkg/skills"
)

// CreateConfig holds the flag values for the create command
type CreateConfig struct {
	Description  string
	Body         string
	BodyFile     string
	AllowedTools []string
	Model        string
	Root         string
	FailIfExists bool
}

// NewCreateConfig returns the default create configuration
func NewCreateConfig() *CreateConfig {
	return &CreateConfig{}
}

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new skill",
	Long: `Create a new skill directory with its SKILL.md document.

By default, creating a skill whose name already exists silently overwrites
the existing document. Pass --fail-if-exists to guard against that.

Examples:
  skillkit create summarizer --description "Summarizes text" --body "Summarize the provided text."
  skillkit create reviewer -d "Reviews Go code" --body-file instructions.md --allowed-tool bash --model claude-sonnet-4-5`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()
		config := getCreateConfigFromFlags(cmd)

		body := config.Body
		if config.BodyFile != "" {
			content, err := os.ReadFile(config.BodyFile)
			if err != nil {
				presenter.Error(err, "Failed to read body file")
				os.Exit(1)
			}
			body = string(content)
		}

		_, repo, cleanup, err := openEnv(ctx)
		if err != nil {
			presenter.Error(err, "Failed to open settings store")
			os.Exit(1)
		}
		defer cleanup()

		req := skills.CreateRequest{
			Name:         args[0],
			Description:  config.Description,
			Body:         body,
			AllowedTools: config.AllowedTools,
			Model:        config.Model,
			FailIfExists: config.FailIfExists,
		}
		if config.Root != "" {
			req.Root = &skills.Root{Path: config.Root}
		}

		skill, err := repo.CreateSkill(ctx, req)
		if err != nil {
			switch {
			case skills.IsValidationError(err):
				presenter.Error(err, "Invalid skill definition")
			case errors.Is(err, skills.ErrAlreadyExists):
				presenter.Error(err, "Skill already exists")
			default:
				presenter.Error(err, "Failed to create skill")
			}
			os.Exit(1)
		}

		presenter.Success(fmt.Sprintf("Created skill %q at %s", skill.DirName, skill.Path))
	},
}

func init() {
	defaults := NewCreateConfig()
	createCmd.Flags().StringP("description", "d", defaults.Description, "Skill description (required)")
	createCmd.Flags().String("body", defaults.Body, "Instruction body")
	createCmd.Flags().String("body-file", defaults.BodyFile, "Read the instruction body from a file")
	createCmd.Flags().StringArray("allowed-tool", defaults.AllowedTools, "Permitted capability identifier (repeatable)")
	createCmd.Flags().String("model", defaults.Model, "Preferred execution model identifier")
	createCmd.Flags().String("root", defaults.Root, "Target storage root path (defaults to the first configured root)")
	createCmd.Flags().Bool("fail-if-exists", defaults.FailIfExists, "Fail instead of overwriting an existing skill document")
	rootCmd.AddCommand(createCmd)
}

func getCreateConfigFromFlags(cmd *cobra.Command) *CreateConfig {
	config := NewCreateConfig()
	if description, err := cmd.Flags().GetString("description"); err == nil {
		config.Description = description
	}
	if body, err := cmd.Flags().GetString("body"); err == nil {
		config.Body = body
	}
	if bodyFile, err := cmd.Flags().GetString("body-file"); err == nil {
		config.BodyFile = bodyFile
	}
	if tools, err := cmd.Flags().GetStringArray("allowed-tool"); err == nil {
		config.AllowedTools = tools
	}
	if model, err := cmd.Flags().GetString("model"); err == nil {
		config.Model = model
	}
	if root, err := cmd.Flags().GetString("root"); err == nil {
		config.Root = root
	}
	if failIfExists, err := cmd.Flags().GetBool("fail-if-exists"); err == nil {
		config.FailIfExists = failIfExists
	}
	return config
}
