package service

import "errors"

var (
	// ErrEmptyQuestion is returned by Route for blank input.
	ErrEmptyQuestion = errors.New("empty question")

	// ErrAllStagesExhausted is the single fatal failure mode of the
	// routing pipeline: the terminal LLM stage itself failed.
	ErrAllStagesExhausted = errors.New("all stages exhausted")
)
