// Package browser drives a Playwright browser on behalf of automation agents.
//
// A visualization run launches one Browser, opens one Context in it and hands
// the context's Page to a set of agent tools. The tools are the only way the
// agents touch the page:
//
//   - browser_navigate: load a URL that passes the navigation allowlist
//   - browser_click, browser_fill, browser_press_key: interact with elements
//   - browser_type_code: replace an editor's contents with the generated code
//   - browser_wait: pause for a number of seconds or until a selector appears
//   - browser_extract_content: read a cleaned digest of the page
//   - browser_evaluate: run a JavaScript expression
//   - browser_screenshot: save the current viewport as a PNG
//
// Launcher, Browser, Context and Page are interfaces so the orchestration
// above can be tested without a real browser.
//
// Example:
//
//	launcher := browser.NewPlaywrightLauncher()
//	b, err := launcher.Launch(ctx, browser.LaunchOptions{Headless: true})
//	if err != nil {
//	    return err
//	}
//	defer b.Close()
//
//	bc, err := b.NewContext()
//	if err != nil {
//	    return err
//	}
//	defer bc.Close()
//
//	err = bc.Page().Goto("https://trinket.io/features/pygame", browser.NavigateOptions{})
package browser
