package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jmvargas/taskdeck/internal/api"
	"github.com/jmvargas/taskdeck/internal/chat"
	"github.com/jmvargas/taskdeck/internal/config"
	"github.com/jmvargas/taskdeck/internal/query"
	"github.com/jmvargas/taskdeck/internal/ui"
)

var rootCmd = &cobra.Command{
	Use:   "taskdeck",
	Short: "Terminal dashboard for the task management backend",
	Long:  `Taskdeck is a terminal client for the task management backend: browse users and tasks, chat with the assistant, detect tasks in pasted text, and review team performance.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client, _ := mustSetup()

		store := query.NewStore()
		if err := ui.Run(client, store, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

var detectCmd = &cobra.Command{
	Use:   "detect [file]",
	Short: "Detect tasks in text from a file or stdin",
	Long: `Detect tasks in free-form text without opening the dashboard.

Examples:
  taskdeck detect notes.txt
  cat email.txt | taskdeck detect --source email`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, client, _ := mustSetup()

		var text []byte
		var err error
		if len(args) > 0 {
			text, err = os.ReadFile(args[0])
		} else {
			text, err = io.ReadAll(os.Stdin)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
			os.Exit(1)
		}
		if strings.TrimSpace(string(text)) == "" {
			fmt.Fprintln(os.Stderr, "No text to analyze")
			os.Exit(1)
		}

		source, _ := cmd.Flags().GetString("source")

		resp, err := client.DetectTasks(context.Background(), string(text), source)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(resp.DetectedTasks) == 0 {
			fmt.Println("No tasks detected.")
			return
		}
		for _, t := range resp.DetectedTasks {
			deadline := "no deadline"
			if t.EstimatedDeadline != nil && *t.EstimatedDeadline != "" {
				deadline = *t.EstimatedDeadline
			}
			fmt.Printf("[%.0f%%] %s (%s, %s)\n", t.Confidence*100, t.Title, t.Priority, deadline)
			if t.Description != "" {
				fmt.Printf("       %s\n", t.Description)
			}
		}
	},
}

var chatCmd = &cobra.Command{
	Use:   "chat <message>",
	Short: "Send one message to the assistant",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg, client, log := mustSetup()

		session := chat.NewSession(client, cfg.DefaultUserID, cfg.Model)
		resp, err := session.Turn(context.Background(), strings.Join(args, " "))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		fmt.Println(resp.Reply)
		for _, n := range resp.Notifications {
			fmt.Fprintf(os.Stderr, "! %s\n", n)
		}
		log.WithFields(logrus.Fields{
			"conversation_id": resp.ConversationID,
			"input_tokens":    resp.InputTokens,
			"output_tokens":   resp.OutputTokens,
		}).Debug("chat turn complete")
	},
}

func init() {
	detectCmd.Flags().String("source", api.SourceGeneral, "Text source: general, email, or whatsapp")

	rootCmd.AddCommand(detectCmd)
	rootCmd.AddCommand(chatCmd)
}

// mustSetup loads config and wires the logger and API client, exiting on
// failure. The logger writes to a file so TUI output stays clean.
func mustSetup() (*config.Config, *api.Client, *logrus.Logger) {
	// Missing .env is fine; the config file carries the defaults.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	log := logrus.New()
	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.JSONFormatter{})

	if logPath, err := config.LogPath(); err == nil {
		if f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
			log.SetOutput(f)
		} else {
			log.SetOutput(io.Discard)
		}
	}

	return cfg, api.NewClient(cfg.APIBaseURL, log), log
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
