// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package prompt

import (
	"errors"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/countervm/utils"
)

var (
	ErrInputEmpty    = errors.New("input is empty")
	ErrInvalidChoice = errors.New("invalid choice")
)

// validateYesNo accepts "y" or "n" in any case.
func validateYesNo(input string) error {
	if len(input) == 0 {
		return ErrInputEmpty
	}
	lower := strings.ToLower(strings.TrimSpace(input))
	if lower == "y" || lower == "n" {
		return nil
	}
	return ErrInvalidChoice
}

func Continue() (bool, error) {
	cont, err := Bool("continue")
	if err != nil {
		return false, err
	}
	if !cont {
		utils.Outf("{{red}}exiting...{{/}}\n")
	}
	return cont, nil
}

func Bool(label string) (bool, error) {
	promptText := promptui.Prompt{
		Label:    label + " (y/n)",
		Validate: validateYesNo,
	}
	raw, err := promptText.Run()
	if err != nil {
		return false, err
	}
	return strings.ToLower(strings.TrimSpace(raw)) == "y", nil
}
