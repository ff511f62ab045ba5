package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scam-honeypot/internal/agent"
	"scam-honeypot/internal/domain/model"
	aiAdapters "scam-honeypot/internal/infra/adapters/ai"
	"scam-honeypot/internal/infra/logging"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "replay",
		Short:        "Run scammer transcripts through the honeypot engine offline",
		Long:         "replay feeds scammer messages through the engagement engine with template replies only, printing the strategy, score and reply of every turn. It never calls a language model or sends a report.",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newRunCmd(), newExtractCmd())
	return rootCmd
}

type turnView struct {
	Turn         int            `json:"turn"`
	Incoming     string         `json:"incoming"`
	Reply        string         `json:"reply"`
	Strategy     model.Strategy `json:"strategy"`
	NextStrategy model.Strategy `json:"next_strategy"`
	Confidence   int            `json:"confidence"`
	Detected     bool           `json:"detected"`
	Stalls       int            `json:"stalls"`
	Finalize     bool           `json:"finalize"`
}

type runOutput struct {
	Turns  []turnView         `json:"turns"`
	Report *model.FinalReport `json:"report,omitempty"`
}

func newRunCmd() *cobra.Command {
	var (
		sessionID string
		asJSON    bool
		keepGoing bool
	)
	cmd := &cobra.Command{
		Use:   "run [transcript]",
		Short: "Replay a transcript (one scammer message per line, or a JSON array of messages); reads stdin without an argument",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			lines, err := readTranscript(in)
			if err != nil {
				return err
			}
			if len(lines) == 0 {
				return fmt.Errorf("transcript has no scammer messages")
			}

			out := replay(cmd.Context(), sessionID, lines, keepGoing)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			return printTurns(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "replay", "session id used in the report")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print turns and report as JSON")
	cmd.Flags().BoolVar(&keepGoing, "all", false, "keep replaying after the session finalizes")
	return cmd
}

func newExtractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <text>",
		Short: "Print the intelligence extracted from a single message",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			intel := agent.Extract(strings.Join(args, " "))
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(intel)
		},
	}
}

func replay(ctx context.Context, sessionID string, lines []string, keepGoing bool) runOutput {
	if ctx == nil {
		ctx = context.Background()
	}
	eng := agent.New(aiAdapters.NewNoopAIAdapter(), agent.ApproxCounter{}, agent.Config{}, time.Now, logging.Nop())
	s := model.NewSession(sessionID)

	var out runOutput
	for _, line := range lines {
		res := eng.Step(ctx, s, line)
		out.Turns = append(out.Turns, turnView{
			Turn:         s.Agent.Turns,
			Incoming:     line,
			Reply:        res.Reply,
			Strategy:     res.Strategy,
			NextStrategy: s.Agent.CurrentStrategy,
			Confidence:   s.Scam.Confidence,
			Detected:     s.Scam.Detected,
			Stalls:       s.Agent.StallCount,
			Finalize:     res.ShouldFinalize,
		})
		if res.ShouldFinalize && !s.Finalized {
			s.Finalized = true
			out.Report = model.NewFinalReport(s, res.Notes)
			if !keepGoing {
				break
			}
		}
	}
	return out
}

// readTranscript accepts either a JSON array of {sender, text} objects, in
// which case only scammer lines are kept, or plain text with one message per
// line.
func readTranscript(r io.Reader) ([]string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var msgs []struct {
			Sender string `json:"sender"`
			Text   string `json:"text"`
		}
		if err := json.Unmarshal([]byte(trimmed), &msgs); err != nil {
			return nil, fmt.Errorf("parse transcript: %w", err)
		}
		var lines []string
		for _, m := range msgs {
			if model.ParseSender(m.Sender) == model.SenderScammer && strings.TrimSpace(m.Text) != "" {
				lines = append(lines, m.Text)
			}
		}
		return lines, nil
	}

	var lines []string
	sc := bufio.NewScanner(strings.NewReader(trimmed))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" && !strings.HasPrefix(line, "#") {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func printTurns(w io.Writer, out runOutput) error {
	for _, t := range out.Turns {
		if _, err := fmt.Fprintf(w, "#%02d [%s -> %s] conf=%d detected=%t stalls=%d\n  scammer: %s\n  agent:   %s\n",
			t.Turn, t.Strategy, t.NextStrategy, t.Confidence, t.Detected, t.Stalls, t.Incoming, t.Reply); err != nil {
			return err
		}
	}
	if out.Report == nil {
		_, err := fmt.Fprintln(w, "session not finalized")
		return err
	}
	r := out.Report
	_, err := fmt.Fprintf(w, "finalized: scam=%t messages=%d notes=%q\n  intelligence: bank=%v upi=%v links=%v phones=%v keywords=%v\n",
		r.ScamDetected, r.TotalMessagesExchanged, r.AgentNotes,
		r.ExtractedIntelligence.BankAccounts, r.ExtractedIntelligence.UPIIDs, r.ExtractedIntelligence.PhishingLinks,
		r.ExtractedIntelligence.PhoneNumbers, r.ExtractedIntelligence.SuspiciousKeywords)
	return err
}
