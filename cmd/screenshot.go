package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mj1618/novawin-cli/internal/locate"
	"github.com/mj1618/novawin-cli/internal/platform"
	"github.com/mj1618/novawin-cli/internal/steps"
	"github.com/spf13/cobra"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture a screenshot of the session root or a window",
	Long: `Capture a screenshot through the driver. With --window or --window-rid the
image is cropped to that window. Without --output the image is written to
stdout as base64.

--annotate outlines the interactive elements and labels them with their
element id (or centre coordinates with --label coords), so a vision model
can name them in follow-up commands.`,
	Example: `  novawin screenshot --output desktop.png
  novawin screenshot --window Notepad --annotate --output notepad.png
  novawin screenshot --format jpg --quality 60 --scale 0.3`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("window", "", "Crop to the window whose title contains this")
	screenshotCmd.Flags().String("window-rid", "", "Crop to a window by runtime id")
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().String("image-format", "png", "Image format: png, jpg")
	screenshotCmd.Flags().Int("quality", 80, "JPEG quality 1-100")
	screenshotCmd.Flags().Float64("scale", 1, "Scale factor 0.1-1.0")
	screenshotCmd.Flags().Bool("annotate", false, "Outline and label interactive elements")
	screenshotCmd.Flags().String("label", "ids", "Annotation labels: ids, coords")
	screenshotCmd.Flags().String("roles", "interactive", "Roles to annotate")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	opts := platform.ScreenshotOptions{}
	opts.Window, _ = f.GetString("window")
	opts.WindowRID, _ = f.GetString("window-rid")
	opts.Format, _ = f.GetString("image-format")
	opts.Quality, _ = f.GetInt("quality")
	opts.Scale, _ = f.GetFloat64("scale")
	file, _ := f.GetString("output")
	withBoxes, _ := f.GetBool("annotate")
	label, _ := f.GetString("label")
	roles, _ := f.GetString("roles")

	mode := labelMode(label)
	if mode != labelIDs && mode != labelCoords {
		return fmt.Errorf("unknown --label %q (expected ids or coords)", label)
	}

	return withProvider(cmd, func(ctx context.Context, p *platform.Provider) error {
		if !withBoxes && file != "" {
			return printResult(steps.Screenshot(ctx, p, opts, file))
		}
		data, err := capture(ctx, p, opts, withBoxes, roles, mode)
		if err != nil {
			return err
		}
		if file != "" {
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return err
			}
			return printResult(steps.Result{Action: "screenshot", File: file, Bytes: len(data)}, nil)
		}
		enc := base64.NewEncoder(base64.StdEncoding, cmd.OutOrStdout())
		if _, err := enc.Write(data); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout())
		return nil
	})
}

// capture takes the screenshot and, when boxes is set, annotates the
// elements of the captured area that match roles.
func capture(ctx context.Context, p *platform.Provider, opts platform.ScreenshotOptions, boxes bool, roles string, mode labelMode) ([]byte, error) {
	if p.Screenshotter == nil {
		return nil, fmt.Errorf("screenshot not available")
	}
	data, err := p.Screenshotter.CaptureWindow(ctx, opts)
	if err != nil || !boxes {
		return data, err
	}
	elements, err := p.Reader.ReadElements(ctx, platform.ReadOptions{
		Window:      opts.Window,
		WindowRID:   opts.WindowRID,
		VisibleOnly: true,
	})
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return data, nil
	}
	targets := (locate.Condition{Role: roles}).FindAll(elements)
	return annotate(data, targets, elements[0].Bounds, mode, opts.Quality)
}
