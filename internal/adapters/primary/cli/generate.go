package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kopachlager/xmasavatar/internal/domain"
	"github.com/kopachlager/xmasavatar/internal/usecases/avatar"
)

// Banner печатается после успешной генерации
const Banner = "*** Merry Christmas! Your festive avatar is ready ***"

type bannerCelebrator struct {
	w io.Writer
}

func (b bannerCelebrator) Celebrate(context.Context) {
	fmt.Fprintln(b.w, Banner)
}

type generateFlags struct {
	handle string
	file   string
	fetch  bool
	theme  string
	out    string
}

func (c *Commands) generateCommand() *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a festive avatar from a photo or a fetched profile picture",
		Example: `  xmas-avatar generate --file me.jpg --theme nordic
  xmas-avatar generate --handle alice --fetch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runGenerate(cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.handle, "handle", "", "social handle used for the quota and --fetch")
	flags.StringVar(&f.file, "file", "", "local photo to transform")
	flags.BoolVar(&f.fetch, "fetch", false, "fetch the profile picture for --handle")
	flags.StringVar(&f.theme, "theme", "", "style id, see the themes command")
	flags.StringVar(&f.out, "out", "", "output path, defaults to xmas-avatar-<handle>.png")
	cmd.MarkFlagsMutuallyExclusive("file", "fetch")
	cmd.MarkFlagsOneRequired("file", "fetch")

	return cmd
}

func (c *Commands) runGenerate(cmd *cobra.Command, f generateFlags) error {
	ctx := cmd.Context()
	svc := c.Avatar

	svc.SetHandle(f.handle)

	if f.file != "" {
		if err := svc.UploadFile(f.file); err != nil {
			return err
		}
	} else {
		if err := svc.FetchProfile(ctx); err != nil {
			return err
		}
	}

	svc.Celebrator = bannerCelebrator{w: cmd.OutOrStdout()}
	svc.Rotator = &avatar.TickerRotator{
		Messages: svc.Catalog.LoadingMessages(),
		Interval: avatar.DefaultRotationInterval,
		OnMessage: func(message string) {
			fmt.Fprintln(cmd.ErrOrStderr(), message)
		},
	}

	if err := svc.Generate(ctx, domain.ThemeID(f.theme)); err != nil {
		return err
	}

	snapshot := svc.Snapshot()
	if snapshot.ProducedImage.IsEmpty() {
		return errors.New("generation finished without an image")
	}

	path := f.out
	if path == "" {
		path = avatar.ResultFileName(snapshot.Handle)
	}
	if err := os.WriteFile(path, snapshot.ProducedImage.Data, 0o644); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "saved %s\n", path)
	fmt.Fprintf(out, "%d generations left today\n", svc.Remaining(ctx))
	return nil
}
