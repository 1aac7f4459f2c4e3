package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/str8zero/str8zero/pkg/adapter"
	"github.com/str8zero/str8zero/pkg/agent"
	"github.com/str8zero/str8zero/pkg/config"
	"github.com/str8zero/str8zero/pkg/history"
	"github.com/str8zero/str8zero/pkg/mood"
	"github.com/str8zero/str8zero/pkg/profile"
	"github.com/str8zero/str8zero/pkg/router"
)

var (
	configFile  string
	lexiconFile string
	aliases     *config.AgentAliases
)

var knownPlatforms = map[string]bool{"android": true, "ios": true, "web": true, "all": true}

func main() {
	rootCmd := &cobra.Command{
		Use:   "str8zero",
		Short: "Mood-aware router for external AI coding agents",
		Long: `str8zero inspects a prompt, infers a mood and syntax signals from it,
and selects which external coding agent should handle the request.
It only names the agent; dispatching to it is up to you.`,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "path to preferences file")
	rootCmd.PersistentFlags().StringVar(&lexiconFile, "lexicon", "", "path to lexicon file")

	rootCmd.AddCommand(routeCmd())
	rootCmd.AddCommand(routesCmd())
	rootCmd.AddCommand(agentsCmd())
	rootCmd.AddCommand(profilesCmd())
	rootCmd.AddCommand(historyCmd())
	rootCmd.AddCommand(keysCmd())
	rootCmd.AddCommand(servicesCmd())
	rootCmd.AddCommand(validateCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func routeCmd() *cobra.Command {
	var taskFlag string
	var platformFlag string
	var explainFlag bool
	var overrideFlag string
	var profileFlag string
	var noLogFlag bool
	var debugFlag bool

	cmd := &cobra.Command{
		Use:   "route [prompt]",
		Short: "Select the coding agent for a prompt",
		Long: `Extracts mood and syntax signals from the prompt and routes it to an
agent by strict precedence: manual override, mood match, syntax match,
task fallback, global default.

Use --explain to see the full decision trace, and --override to bypass
inference entirely (short names like "claude" are accepted).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]

			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			lex, err := loadLexicon()
			if err != nil {
				return fmt.Errorf("failed to load lexicon: %w", err)
			}
			registry := buildRegistry(cfg)

			if errs := cfg.Preferences.Validate(lex.MoodLabels(), lex.PatternNames(), registry.Names()); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintf(os.Stderr, "  - %v\n", e)
				}
				return fmt.Errorf("invalid preferences (%d problems)", len(errs))
			}

			profiles, err := profile.NewManager(filepath.Join(cfg.ConfigDir, "profiles"))
			if err != nil {
				return fmt.Errorf("failed to load profiles: %w", err)
			}
			prof, err := profiles.Get(profileFlag)
			if err != nil {
				return err
			}
			task := firstNonEmpty(taskFlag, prof.Preferences.DefaultTask, "app-gen")
			platform := firstNonEmpty(platformFlag, prof.Preferences.DefaultPlatform, "all")
			override := firstNonEmpty(overrideFlag, prof.Preferences.DefaultAgent)
			if override != "" {
				override = aliases.Resolve(override)
			}

			if !knownPlatforms[platform] {
				return fmt.Errorf("unknown platform %q (known: android, ios, web, all)", platform)
			}

			moodSig, syntaxSig := mood.NewDetector(lex).Extract(prompt)
			signals := router.Signals{Mood: moodSig, Syntax: syntaxSig}

			r := router.New(cfg.Preferences,
				router.WithClassifier(router.NewClassifier(createAdapters(cfg), cfg.Preferences.Classifier)),
				router.WithDebug(debugFlag),
			)

			selection, err := r.RouteWithTieBreak(context.Background(), prompt, task, signals, override)
			if err != nil {
				return err
			}

			fmt.Printf("🔀 Agent Selected: %s %s\n", selection.Agent, registry.Emoji(selection.Agent))
			fmt.Printf("🧠 Reason: %s\n", selection.Trace.Reason())
			fmt.Printf("💸 Estimated Cost: $%.2f\n", registry.EstimateCost(selection.Agent, task))
			if explainFlag {
				fmt.Println()
				fmt.Print(selection.Trace.Render())
			}

			if !noLogFlag {
				history.Open(history.DefaultPath(cfg.ConfigDir)).Record(history.Entry{
					Prompt:       prompt,
					Task:         task,
					Platform:     platform,
					MoodSignal:   moodSig,
					SyntaxSignal: syntaxSig,
					Agent:        selection.Agent,
					OverrideUsed: selection.OverrideUsed,
				})
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&taskFlag, "task", "", "task to perform: app-gen, deploy, monetize, vibe-gen")
	cmd.Flags().StringVar(&platformFlag, "platform", "", "target platform: android, ios, web, all")
	cmd.Flags().BoolVar(&explainFlag, "explain", false, "show the full decision trace")
	cmd.Flags().StringVar(&overrideFlag, "override", "", "bypass inference and select this agent")
	cmd.Flags().StringVar(&profileFlag, "profile", "", "profile supplying flag defaults")
	cmd.Flags().BoolVar(&noLogFlag, "no-log", false, "skip the history log entry")
	cmd.Flags().BoolVar(&debugFlag, "debug", false, "log routing internals")

	return cmd
}

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Show current routing preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TASK\tRULE\tSIGNAL\tAGENT")

			var tasks []string
			for name := range cfg.Preferences.Tasks {
				tasks = append(tasks, name)
			}
			sort.Strings(tasks)

			for _, task := range tasks {
				tp := cfg.Preferences.Tasks[task]
				for _, label := range sortedKeys(tp.Mood) {
					fmt.Fprintf(w, "%s\tmood\t%s\t%s\n", task, label, tp.Mood[label])
				}
				for _, pattern := range sortedKeys(tp.Syntax) {
					fmt.Fprintf(w, "%s\tsyntax\t%s\t%s\n", task, pattern, tp.Syntax[pattern])
				}
				if tp.Fallback != "" {
					fmt.Fprintf(w, "%s\tfallback\t-\t%s\n", task, tp.Fallback)
				}
			}

			fmt.Fprintln(w)
			fmt.Fprintf(w, "DEFAULT\t-\t-\t%s\n", cfg.Preferences.Defaults.Agent)

			return w.Flush()
		},
	}
}

func agentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agents",
		Short: "List and manage agents",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List built-in and custom agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			registry := buildRegistry(cfg)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tKIND\tBASE COST\tSTRENGTHS")
			for _, d := range registry.List() {
				kind := "built-in"
				if d.Custom {
					kind = "custom"
				}
				fmt.Fprintf(w, "%s %s\t%s\t$%.2f\t%s\n",
					d.Name, d.Emoji, kind, d.BaseCost, strings.Join(d.Strengths, ", "))
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "create [name]",
		Short: "Create a custom agent template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			path, err := agent.CreateTemplate(filepath.Join(cfg.ConfigDir, "agents"), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✅ Created custom agent template: %s\n", path)
			return nil
		},
	})

	return cmd
}

func profilesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profiles",
		Short: "List and manage profiles",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := profileManager()
			if err != nil {
				return err
			}
			profiles, err := manager.List()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PROFILE\tTASK\tPLATFORM\tAGENT\tDESCRIPTION")
			for _, p := range profiles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					p.Name,
					orDash(p.Preferences.DefaultTask),
					orDash(p.Preferences.DefaultPlatform),
					orDash(p.Preferences.DefaultAgent),
					p.Description)
			}
			return w.Flush()
		},
	})

	var taskFlag, platformFlag, agentFlag string
	createCmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create a new profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := profileManager()
			if err != nil {
				return err
			}
			path, err := manager.Create(args[0], profile.ProfilePrefs{
				DefaultTask:     taskFlag,
				DefaultPlatform: platformFlag,
				DefaultAgent:    aliases.Resolve(agentFlag),
			})
			if err != nil {
				return err
			}
			fmt.Printf("✅ Created profile: %s\n", path)
			return nil
		},
	}
	createCmd.Flags().StringVar(&taskFlag, "task", "", "default task for this profile")
	createCmd.Flags().StringVar(&platformFlag, "platform", "", "default platform for this profile")
	createCmd.Flags().StringVar(&agentFlag, "agent", "", "preferred agent for this profile")
	cmd.AddCommand(createCmd)

	return cmd
}

func historyCmd() *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent routing decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			entries, err := history.Open(history.DefaultPath(cfg.ConfigDir)).Tail(limitFlag)
			if err != nil {
				return fmt.Errorf("failed to read history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Println("No routing history yet.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tTASK\tAGENT\tOVERRIDE\tPROMPT")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n",
					e.Timestamp.Local().Format("2006-01-02 15:04"),
					e.Task, e.Agent, e.OverrideUsed, truncate(e.Prompt, 48))
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limitFlag, "limit", 10, "number of entries to show")

	return cmd
}

func keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage API keys for the tie-breaker classifier",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show configured API keys (masked)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SERVICE\tSTATUS")
			for _, s := range config.KeyServices() {
				status := "no key"
				if cfg.HasAdapter(s) {
					status = "configured"
				}
				fmt.Fprintf(w, "%s\t%s\n", s, status)
			}
			return w.Flush()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set [service] [key]",
		Short: "Store an API key in the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := cfg.SetAPIKey(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("✅ Stored %s key (env vars still take precedence)\n", args[0])
			return nil
		},
	})

	return cmd
}

func servicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "Show agent executables and whether they are installed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			registry := buildRegistry(cfg)

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "AGENT\tEXECUTABLE\tSTATUS")
			for _, d := range registry.List() {
				status := "not installed"
				if d.Available() {
					status = "ready"
				}
				exe := d.Executable
				if exe == "" {
					exe = "-"
					status = "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", d.Name, exe, status)
			}
			return w.Flush()
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate preferences and lexicon files",
		Long:  "Loads the preferences and lexicon, cross-checks every referenced mood, pattern and agent, and reports all problems.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			lex, err := loadLexicon()
			if err != nil {
				return err
			}
			registry := buildRegistry(cfg)

			errs := cfg.Preferences.Validate(lex.MoodLabels(), lex.PatternNames(), registry.Names())
			if len(errs) == 0 {
				fmt.Println("Preferences and lexicon are valid.")
				return nil
			}

			fmt.Fprintf(os.Stderr, "Found %d validation errors:\n", len(errs))
			for _, e := range errs {
				fmt.Fprintf(os.Stderr, "  - %v\n", e)
			}
			return fmt.Errorf("validation failed")
		},
	}
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if configFile != "" {
		cfg, err = config.LoadWithPreferencesFile(configFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	aliases, err = config.LoadAgentAliasesWithFallback("configs/aliases.yaml")
	if err != nil {
		return nil, fmt.Errorf("failed to load aliases: %w", err)
	}

	return cfg, nil
}

func loadLexicon() (*mood.Lexicon, error) {
	if lexiconFile != "" {
		return mood.LoadLexicon(lexiconFile)
	}
	return mood.LoadLexiconWithFallback("configs/lexicon.yaml")
}

func buildRegistry(cfg *config.Config) *agent.Registry {
	registry := agent.NewRegistry()
	registry.LoadCustom(filepath.Join(cfg.ConfigDir, "agents"))
	return registry
}

func profileManager() (*profile.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return profile.NewManager(filepath.Join(cfg.ConfigDir, "profiles"))
}

func createAdapters(cfg *config.Config) map[string]adapter.Adapter {
	adapters := make(map[string]adapter.Adapter)

	if cfg.AnthropicAPIKey != "" {
		if a, err := adapter.NewAnthropicAdapter(cfg.AnthropicAPIKey); err == nil {
			adapters["anthropic"] = a
		}
	}
	if cfg.OpenAIAPIKey != "" {
		if a, err := adapter.NewOpenAIAdapter(cfg.OpenAIAPIKey); err == nil {
			adapters["openai"] = a
		}
	}
	if cfg.GoogleAPIKey != "" {
		if a, err := adapter.NewGoogleAdapter(cfg.GoogleAPIKey); err == nil {
			adapters["google"] = a
		}
	}
	adapters["mock"] = adapter.NewMockAdapter()

	return adapters
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
