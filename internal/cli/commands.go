package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/bbsdemo/internal/presentation/tui"
	"github.com/aretw0/bbsdemo/pkg/cipher"
	"github.com/aretw0/bbsdemo/pkg/domain"
	"github.com/aretw0/bbsdemo/pkg/lifecycle"
)

// CipherOptions configures Encrypt and Decrypt.
type CipherOptions struct {
	// Seed overrides the configured seed for this call.
	Seed string
}

// messageError shows a friendlier text while keeping the cause for errors.Is.
type messageError struct {
	msg string
	err error
}

func (e *messageError) Error() string { return e.msg }
func (e *messageError) Unwrap() error { return e.err }

// commandError turns a workflow failure into the line the user sees.
func commandError(err error) error {
	if err == nil || isInterrupted(err) {
		return err
	}
	if msg := lifecycle.Message(err); msg != err.Error() {
		return &messageError{msg: msg, err: err}
	}
	return err
}

func (a *App) applySeed(seed string) {
	if seed == "" {
		return
	}
	p := a.Client.Params()
	p.Seed = seed
	a.Client.SetParams(p)
}

// EncryptOffline prints text rotated by the local cipher keyed by key.
// No generator is involved.
func EncryptOffline(w io.Writer, text, key string) error {
	out, err := cipher.EncryptLocal(text, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

// DecryptOffline reverses EncryptOffline.
func DecryptOffline(w io.Writer, text, key string) error {
	out, err := cipher.DecryptLocal(text, key)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, out)
	return nil
}

// Encrypt prints the hex ciphertext of text.
func Encrypt(ctx context.Context, a *App, text string, opts CipherOptions) error {
	a.applySeed(opts.Seed)
	res, err := a.Client.Encrypt(ctx, text)
	if err != nil {
		return commandError(err)
	}
	fmt.Fprintln(a.out, res.Text)
	a.printSteps(res.Steps)
	if note := a.clipboardNote(); note != "" {
		printSystemMessage(os.Stderr, "Encrypted%s", note)
	}
	return nil
}

// Decrypt prints the plaintext of the hex ciphertext encrypted.
func Decrypt(ctx context.Context, a *App, encrypted string, opts CipherOptions) error {
	a.applySeed(opts.Seed)
	res, err := a.Client.Decrypt(ctx, encrypted)
	if err != nil {
		return commandError(err)
	}
	fmt.Fprintln(a.out, res.Text)
	a.printSteps(res.Steps)
	if note := a.clipboardNote(); note != "" {
		printSystemMessage(os.Stderr, "Decrypted%s", note)
	}
	return nil
}

// SpinOptions configures Spin.
type SpinOptions struct {
	Number     int
	Bet        int
	RandomSeed bool
}

// Spin bets on one number, waits for the wheel to land and prints the outcome.
func Spin(ctx context.Context, a *App, opts SpinOptions) error {
	w := a.Client.Wheel
	if err := w.Select(opts.Number); err != nil {
		return err
	}
	if opts.Bet > 0 {
		if err := w.SetBet(opts.Bet); err != nil {
			return err
		}
	}
	if opts.RandomSeed {
		printSystemMessage(os.Stderr, "Using seed %s", a.Client.ChangeSeed())
	}
	if err := a.Client.Spin(ctx); err != nil {
		return commandError(err)
	}
	if a.styled {
		printSystemMessage(os.Stderr, "Spinning...")
	}
	out, err := w.Wait(ctx)
	if err != nil {
		return commandError(err)
	}
	fmt.Fprintln(a.out, out.Message())
	fmt.Fprintf(a.out, "Balance: $%d\n", out.Balance)
	return nil
}

// ShuffleOptions configures Shuffle.
type ShuffleOptions struct {
	// Draw deals hands of this many cards after shuffling.
	Draw       int
	Hands      int
	RandomSeed bool
}

// Shuffle asks the generator for a permutation and optionally deals hands.
func Shuffle(ctx context.Context, a *App, opts ShuffleOptions) error {
	if opts.RandomSeed {
		printSystemMessage(os.Stderr, "Using seed %s", a.Client.ChangeSeed())
	}
	if err := a.Client.Shuffle(ctx); err != nil {
		return commandError(err)
	}
	st := a.Client.Deck.State()
	if st.Message != "" {
		printSystemMessage(os.Stderr, "%s", st.Message)
	}
	if opts.Draw <= 0 {
		fmt.Fprintln(a.out, domain.Hand(st.Shuffled))
	}
	hands := max(opts.Hands, 1)
	for i := 0; opts.Draw > 0 && i < hands; i++ {
		hand, err := a.Client.Deck.Draw(opts.Draw)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, domain.Hand(hand))
	}
	a.printSteps(st.Steps)
	return nil
}

// printSteps shows the generator trace when the showSteps setting is on.
func (a *App) printSteps(steps []domain.Step) {
	if len(steps) == 0 || !a.Client.Settings.Get().ShowSteps {
		return
	}
	md := tui.StepsMarkdown(steps, tui.DefaultStepLimit)
	if !a.styled {
		fmt.Fprint(os.Stderr, md)
		return
	}
	out, err := tui.NewRenderer(a.Theme.Dark(), a.width)(md)
	if err != nil {
		out = md
	}
	fmt.Fprint(os.Stderr, out)
}

// settingKeys are the names accepted by SettingsGet and SettingsSet.
var settingKeys = []string{"autoCopy", "showSteps", "theme", "activeTab"}

// SettingsGet prints one setting, or all of them as JSON when key is empty.
func SettingsGet(a *App, key string) error {
	if key == "" {
		data, err := json.MarshalIndent(a.Client.Settings.Get(), "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(data))
		return nil
	}
	v, ok := a.Client.Settings.Value(key)
	if !ok {
		return fmt.Errorf("unknown setting %q (want one of %v)", key, settingKeys)
	}
	fmt.Fprintln(a.out, v)
	return nil
}

// SettingsSet parses value for key and persists it.
func SettingsSet(ctx context.Context, a *App, key, value string) error {
	patch, err := parsePatch(key, value)
	if err != nil {
		return err
	}
	return a.Client.Settings.Update(ctx, patch)
}

func parsePatch(key, value string) (domain.Patch, error) {
	var patch domain.Patch
	switch key {
	case "autoCopy", "showSteps":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return patch, fmt.Errorf("%s must be true or false", key)
		}
		if key == "autoCopy" {
			patch.AutoCopy = &b
		} else {
			patch.ShowSteps = &b
		}
	case "theme":
		t, err := domain.ParseTheme(value)
		if err != nil {
			return patch, err
		}
		patch.Theme = &t
	case "activeTab":
		if !slices.Contains(tui.Tabs, value) {
			return patch, fmt.Errorf("unknown tab %q (want one of %v)", value, tui.Tabs)
		}
		patch.ActiveTab = &value
	default:
		return patch, fmt.Errorf("unknown setting %q (want one of %v)", key, settingKeys)
	}
	return patch, nil
}

// RunTUI opens the interactive terminal UI.
func RunTUI(ctx context.Context, a *App) error {
	if !a.styled {
		return fmt.Errorf("the interactive UI needs a terminal")
	}
	return tui.Run(ctx, a.Client, a.Theme, tui.WithLogger(a.Logger))
}

// PrintVersion prints the release, with the banner on a terminal.
func PrintVersion(stdout *os.File, version string) {
	if IsTerminal(stdout) {
		tui.PrintBanner(stdout, version)
		return
	}
	fmt.Fprintf(stdout, "bbsdemo version %s\n", strings.TrimSpace(version))
}
