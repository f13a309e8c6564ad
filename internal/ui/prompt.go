package ui

import (
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"
)

// PromptViewerLogin asks for the GitHub username whose balance to compute.
func PromptViewerLogin() (string, error) {
	prompt := promptui.Prompt{
		Label: "GitHub username to analyze",
		Validate: func(input string) error {
			if strings.TrimSpace(input) == "" {
				return fmt.Errorf("username must not be empty")
			}
			return nil
		},
	}

	login, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return strings.TrimSpace(login), nil
}

// PromptRepositories asks for a comma separated owner/repo list.
func PromptRepositories() ([]string, error) {
	prompt := promptui.Prompt{
		Label: "Repositories to analyze (owner/repo, comma separated)",
		Validate: func(input string) error {
			repos := SplitRepos(input)
			if len(repos) == 0 {
				return fmt.Errorf("at least one repository is required")
			}
			for _, repo := range repos {
				if !strings.Contains(repo, "/") {
					return fmt.Errorf("%q is not an owner/repo name", repo)
				}
			}
			return nil
		},
	}

	input, err := prompt.Run()
	if err != nil {
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return SplitRepos(input), nil
}

// SplitRepos splits a comma separated repository list, dropping blanks.
func SplitRepos(input string) []string {
	var repos []string
	for _, part := range strings.Split(input, ",") {
		if part = strings.TrimSpace(part); part != "" {
			repos = append(repos, part)
		}
	}
	return repos
}
