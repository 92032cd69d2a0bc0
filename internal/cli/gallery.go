package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/trazo/pkg/gallery"
)

// galleryCommand lists saved images.
func (c *CLI) galleryCommand() *cobra.Command {
	var (
		limit int
		dir   string
	)
	cmd := &cobra.Command{
		Use:   "gallery",
		Short: "List saved images, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			g, err := c.newGallery(ctx, dir)
			if err != nil {
				return err
			}
			defer g.Close()

			images, err := g.List(ctx, limit)
			if err != nil {
				return err
			}
			if len(images) == 0 {
				printInfo("No images yet")
				printNextStep("Create one", "trazo river 😊 🌊")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), galleryTable(images))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of images (0 for all)")
	cmd.Flags().StringVar(&dir, "dir", "", "gallery directory (default from config)")
	return cmd
}

func galleryTable(images []gallery.Image) string {
	rows := make([][]string, 0, len(images))
	for _, img := range images {
		created := "—"
		if !img.CreatedAt.IsZero() {
			created = img.CreatedAt.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{img.Name, string(img.Kind), created, formatSize(img.Size)})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Image", "Kind", "Created", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorWhite)
			default:
				return lipgloss.NewStyle().Foreground(colorGray)
			}
		}).
		Render()
}

func formatSize(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	return fmt.Sprintf("%d KB", (n+512)/1024)
}
