package internal

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

type promptValidator func(string) (bool, string)

type promptConfig struct {
	tries     int
	def       string
	validator promptValidator
}

type promptOption func(*promptConfig)

func WithValidator(v promptValidator) promptOption {
	return func(cfg *promptConfig) {
		cfg.validator = v
	}
}

func WithMaxTries(i int) promptOption {
	return func(cfg *promptConfig) {
		cfg.tries = i
	}
}

// WithDefault substitutes def for empty input before validation.
func WithDefault(def string) promptOption {
	return func(cfg *promptConfig) {
		cfg.def = def
	}
}

func Prompt(rw io.ReadWriter, prompt string, opts ...promptOption) (string, error) {
	config := &promptConfig{}
	for _, opt := range opts {
		opt(config)
	}

	br := bufio.NewReader(rw)

	tries := 0
	for {
		_, err := rw.Write([]byte(prompt))
		if err != nil {
			return "", err
		}

		input, _, err := br.ReadLine()
		if err != nil {
			return "", err
		}

		str := strings.TrimSpace(string(input))
		if str == "" && config.def != "" {
			str = config.def
		}

		if config.validator != nil {
			ok, msg := config.validator(str)
			if !ok {
				rw.Write([]byte(msg))

				tries++
				if config.tries > 0 && config.tries == tries {
					rw.Write([]byte("too many tries"))
					return "", fmt.Errorf("too many tries")
				}

				continue
			}
		}

		return str, nil
	}
}

func PromptYN(rw io.ReadWriter, prompt string) (bool, error) {
	str, err := Prompt(rw, prompt, WithValidator(
		func(str string) (bool, string) {
			switch strings.ToLower(str) {
			case "y", "yes", "n", "no":
				return true, ""
			default:
				return false, "enter 'yes' or 'no'\n"
			}
		},
	))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(str) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// PromptInt prompts for an integer in [min, max].
func PromptInt(rw io.ReadWriter, prompt string, min, max int, opts ...promptOption) (int, error) {
	opts = append(opts, WithValidator(
		func(str string) (bool, string) {
			i, err := strconv.Atoi(str)
			if err != nil {
				return false, "enter a number\n"
			}
			if i < min || i > max {
				return false, fmt.Sprintf("enter a number between %d and %d\n", min, max)
			}
			return true, ""
		},
	))

	str, err := Prompt(rw, prompt, opts...)
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(str)
}

// PromptChoice prompts until the input matches one of choices
// (case-insensitive). Matching is exact, not by prefix.
func PromptChoice(rw io.ReadWriter, prompt string, choices []string, opts ...promptOption) (string, error) {
	opts = append(opts, WithValidator(
		func(str string) (bool, string) {
			for _, c := range choices {
				if strings.EqualFold(str, c) {
					return true, ""
				}
			}
			return false, fmt.Sprintf("enter one of: %s\n", strings.Join(choices, ", "))
		},
	))

	str, err := Prompt(rw, prompt, opts...)
	if err != nil {
		return "", err
	}

	return strings.ToLower(str), nil
}
