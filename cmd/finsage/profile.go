package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/model"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or set the user profile used for personalized insights",
		RunE:  runProfile,
	}

	cmd.Flags().String("segment", "", "User segment (e.g. freelancer, small-business)")
	cmd.Flags().String("industry", "", "Industry (e.g. software, construction)")
	cmd.Flags().String("experience", "", "Experience level (beginner, intermediate, advanced)")

	return cmd
}

func runProfile(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := buildEngine(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	segment, _ := cmd.Flags().GetString("segment")
	industry, _ := cmd.Flags().GetString("industry")
	experience, _ := cmd.Flags().GetString("experience")

	if segment == "" && industry == "" && experience == "" {
		profile := eng.UserProfile()
		if profile == nil {
			fmt.Println("No profile set. Use --segment, --industry, or --experience.")
			return nil
		}
		fmt.Printf("Segment:    %s\nIndustry:   %s\nExperience: %s\n",
			profile.Segment, profile.Industry, profile.ExperienceLevel)
		return nil
	}

	// Merge flags over the stored profile so partial updates work.
	profile := eng.UserProfile()
	if profile == nil {
		profile = &model.UserProfile{}
	}
	if segment != "" {
		profile.Segment = segment
	}
	if industry != "" {
		profile.Industry = industry
	}
	if experience != "" {
		profile.ExperienceLevel = experience
	}

	if err := eng.SetUserProfile(ctx, profile); err != nil {
		return err
	}

	fmt.Println("Profile saved.")
	return nil
}
