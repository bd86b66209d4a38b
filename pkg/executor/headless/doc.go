// Package headless runs pyforge without a terminal UI, for scripts and CI.
//
// A run generates pygame code for one query, writes it to visualization.py,
// optionally validates it with command checks, and optionally drives the
// browser agents to run it on Trinket:
//
//	┌──────────────┐    ┌──────────────┐    ┌──────────────────┐
//	│  Generation  │───▶│    Checks    │───▶│  Visualization   │
//	│  (codegen)   │◀───│  (optional)  │    │   (optional)     │
//	└──────────────┘    └──────────────┘    └──────────────────┘
//	       retry with check output
//
// Example usage:
//
//	cfg, _ := headless.LoadConfig("pyforge-run.yaml")
//	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
//
//	registry := codegen.DefaultRegistry(codegen.ProviderSettings{}, codegen.ProviderSettings{})
//	executor, _ := headless.NewExecutor(registry, cfg)
//
//	if err := executor.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// Run file:
//
//	query: a bouncing ball with gravity
//	provider: openai
//	visualize: true
//	output_dir: pyforge-output
//	timeout: 10m
//	checks:
//	  - name: compile
//	    command: python3 -m py_compile {file}
//	    required: true
//	check_max_retries: 1
//	logging:
//	  verbosity: verbose
//
// Artifacts:
//
// - visualization.py: the generated program
// - artifact.json: the run summary
// - summary.md: human-readable summary
//
// A failed visualization of good code is reported as a partial success; the
// code is still written so it can be run by hand.
package headless
