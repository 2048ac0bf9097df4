package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/dgnsrekt/essaycoach/internal/playback"
)

var sayCmd = &cobra.Command{
	Use:     "say TEXT...",
	Short:   "Speak text aloud",
	Long:    paragraph(fmt.Sprintf("\n%s text with the remote speech service, falling back to the on-device engine, and report which one was used.", keyword("Speak"))),
	Example: paragraph("essaycoach say vibrant\nessaycoach say \"The night market is vibrant.\""),
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.NoAudio {
			return errors.New("audio is disabled by no_audio")
		}
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			return errors.New("nothing to say")
		}

		sp, err := newSpeechStack(cfg.Speech)
		if err != nil {
			return err
		}
		defer sp.Close() //nolint:errcheck

		c := sp.controller()
		c.OnChange(func(s playback.Status) {
			log.Debug("playback status", "status", s, "source", c.Source())
		})

		start := time.Now()
		if err := c.Speak(text); err != nil {
			return fmt.Errorf("unable to speak: %w", err)
		}

		st := sp.cache.Stats()
		fmt.Fprintf(cmd.OutOrStdout(), "Spoken by %s in %s (%s of audio cached)\n",
			keyword(c.Source()),
			time.Since(start).Round(time.Millisecond),
			humanize.IBytes(uint64(max(0, st.RawSize))), //nolint:gosec
		)
		return nil
	},
}
