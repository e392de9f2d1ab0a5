package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/mkomon/pruner/internal/fs"
	"github.com/mkomon/pruner/internal/logging"
	"github.com/mkomon/pruner/internal/prune"
	"github.com/mkomon/pruner/internal/report"
)

// safetyDelay is the countdown, in seconds, between confirmation and the
// first deletion. Ctrl+C anywhere in it aborts.
const safetyDelay = 10

// applyPlan walks the operator through confirmation and performs the
// deletions. Without --yes it requires an interactive terminal.
func applyPlan(log logging.Logger, filesystem fs.FS, plan prune.Plan) error {
	prunable := plan.Prunable()

	if !flagYes {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			log.Warn("stdin is not a terminal; not deleting anything (use --yes or --dry-run)")
			return nil
		}

		fmt.Println("\n=============================== WARNING ===============================")
		fmt.Printf("You are going to delete all the files listed below (%d files in total).\n", len(prunable))
		fmt.Println("Please review them carefully once more and confirm the deletion.")
		report.RenderPrunable(os.Stdout, plan)

		ok, err := confirm("Do you want to proceed and delete all the files listed above? (y/n): ")
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("No changes made.")
			return nil
		}

		fmt.Printf("Proceeding with removal in %d seconds, this is your last chance\nto interrupt using Ctrl+C!\n", safetyDelay)
		countdown(safetyDelay)
	}

	ctx := context.Background()
	deleted := 0
	for _, d := range prunable {
		if err := filesystem.RemoveIfUnchanged(ctx, d.Entry.File); err != nil {
			log.Warn("not deleted", "file", d.Entry.File.Path, "error", err)
			continue
		}
		deleted++
	}

	fmt.Printf("Deleted %d files.\n", deleted)
	return nil
}

// confirm loops until the answer is an unambiguous y or n.
func confirm(prompt string) (bool, error) {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			return false, fmt.Errorf("reading confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y":
			return true, nil
		case "n":
			return false, nil
		}
	}
}

func countdown(seconds int) {
	for i := seconds; i > 0; i-- {
		fmt.Println(i)
		time.Sleep(time.Second)
	}
}
