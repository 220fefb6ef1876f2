// Command amc submits a molecular-optimization run to the agent pipeline
// and renders its progress, either as a live terminal view or as a plain
// line-by-line stream.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/EmilioVenegas/hacknation-Falcon270/core"
	"github.com/EmilioVenegas/hacknation-Falcon270/core/events"
	"github.com/EmilioVenegas/hacknation-Falcon270/core/molecules"
	"github.com/EmilioVenegas/hacknation-Falcon270/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

const runPath = "/api/run-crew"

func main() {
	_ = godotenv.Load()

	server := flag.String("server", serverFromEnv(), "base URL of the pipeline server")
	structure := flag.String("structure", "", "starting structure (SMILES)")
	goal := flag.String("goal", string(optimization.GoalImproveLipinski), "optimization goal")
	similarity := flag.Float64("similarity", 0.7, "minimum similarity to the starting structure (0-1)")
	weightMin := flag.Float64("weight-min", 0, "molecular weight lower bound (with -weight-max)")
	weightMax := flag.Float64("weight-max", 0, "molecular weight upper bound (with -weight-min)")
	synthMax := flag.Float64("synth-max", 0, "maximum synthesizability score")
	idleTimeout := flag.Duration("idle-timeout", 2*time.Minute, "fail the run when the stream stays silent this long (0 disables)")
	plain := flag.Bool("plain", false, "line-by-line output instead of the live view")
	saveImage := flag.String("save-image", "", "write a PNG of the final structure to this path")
	printSchema := flag.Bool("schema", false, "print the run request JSON schema and exit")
	listGoals := flag.Bool("goals", false, "list supported optimization goals and exit")
	flag.Parse()

	if *printSchema {
		encoded, err := json.MarshalIndent(optimization.RequestSchema(), "", "  ")
		if err != nil {
			fatalf("error encoding schema: %v", err)
		}
		fmt.Println(string(encoded))
		return
	}
	if *listGoals {
		for _, goal := range optimization.Goals() {
			fmt.Println(goal)
		}
		return
	}

	request := optimization.Request{
		Structure: *structure,
		Goal:      optimization.Goal(*goal),
		Constraints: optimization.Constraints{
			Similarity: *similarity,
		},
	}
	if *weightMin != 0 || *weightMax != 0 {
		request.Constraints.Weight = &optimization.WeightRange{Min: *weightMin, Max: *weightMax}
	}
	if *synthMax != 0 {
		request.Constraints.Synthesizability = &optimization.SynthesizabilityLimit{Max: *synthMax}
	}
	if err := request.Validate(); err != nil {
		fatalf("%v", err)
	}

	baseURL := strings.TrimRight(*server, "/")
	session := optimization.NewSession(optimization.WithEndpoint(baseURL + runPath))

	if *plain {
		runPlain(session, request, *idleTimeout)
	} else {
		program := tea.NewProgram(ui.New(session, request))
		if _, err := program.Run(); err != nil {
			fatalf("error running terminal view: %v", err)
		}
	}

	finish(session.Snapshot(), molecules.NewClient(baseURL), *saveImage)
}

func runPlain(session *optimization.Session, request optimization.Request, idleTimeout time.Duration) {
	err := session.Run(context.Background(), request,
		optimization.WithIdleTimeout(idleTimeout),
		optimization.WithPhaseCallback(func(phase optimization.Phase) {
			fmt.Printf("-- %s\n", phase)
		}),
		optimization.WithThoughtCallback(func(thought events.AgentThought) {
			fmt.Printf("%s %s: %s\n", thought.Timestamp().Format("15:04:05"), thought.Speaker, thought.Message)
		}),
		optimization.WithErrorCallback(func(message string) {
			fmt.Fprintf(os.Stderr, "pipeline error: %s\n", message)
		}),
	)
	if err != nil {
		fatalf("%v", err)
	}
}

// finish prints the run outcome and resolves the final structure's
// follow-up lookups.
func finish(state optimization.State, lookups *molecules.Client, saveImage string) {
	report := state.FinalReport
	if report != nil {
		fmt.Printf("\n%s after %d attempt(s): %s\n", report.Status, report.Attempts, report.FinalStructure)
		if report.ExecutiveSummary != "" {
			fmt.Printf("\n%s\n", report.ExecutiveSummary)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if report != nil && report.FinalStructure != "" {
		if score, err := lookups.SynthesizabilityScore(ctx, report.FinalStructure); err == nil {
			fmt.Printf("synthesizability score: %.2f\n", score)
		}
		if saveImage != "" {
			image, err := lookups.Image(ctx, report.FinalStructure)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error rendering final structure: %v\n", err)
			} else if err := os.WriteFile(saveImage, image, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "error writing %s: %v\n", saveImage, err)
			} else {
				fmt.Printf("wrote %s\n", saveImage)
			}
		}
	}

	if state.Phase != optimization.PhaseSucceeded {
		os.Exit(1)
	}
}

func serverFromEnv() string {
	if server := os.Getenv("AMC_SERVER"); server != "" {
		return server
	}
	return "http://localhost:8000"
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
