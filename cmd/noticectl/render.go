package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jmylchreest/noticekit/internal/config"
	"github.com/jmylchreest/noticekit/internal/notice"
)

var renderOpts struct {
	key      string
	content  string
	class    string
	closable bool
	mount    string
	attrs    map[string]string
	style    map[string]string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Print notice markup",
	Long: `Render a notice from the configuration and print its HTML.

Flags override the configured notice. With --mount the notice is rendered
into a container element with the given id instead of inline, and the
container is printed.

Only data-*, aria-* and role attributes given with --attr reach the
markup; anything else is dropped.`,
	Example: `  noticectl render --content "Saved" --closable
  noticectl render --attr data-id=42 --attr role=alert --mount toasts`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderOpts.key, "key", "",
		"Notice key (generated if empty)")
	renderCmd.Flags().StringVar(&renderOpts.content, "content", "",
		"Notice text content")
	renderCmd.Flags().StringVar(&renderOpts.class, "class", "",
		"Extra class name on the notice root")
	renderCmd.Flags().BoolVar(&renderOpts.closable, "closable", false,
		"Render a close control")
	renderCmd.Flags().StringVar(&renderOpts.mount, "mount", "",
		"Render into a container element with this id")
	renderCmd.Flags().StringToStringVar(&renderOpts.attrs, "attr", nil,
		"Extra attribute (name=value, repeatable)")
	renderCmd.Flags().StringToStringVar(&renderOpts.style, "style", nil,
		"Inline style property (name=value, repeatable)")
}

func runRender(cmd *cobra.Command, args []string) error {
	nc := renderConfig(cmd, cfg.Notice)

	var mount *html.Node
	if renderOpts.mount != "" {
		mount = &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Div,
			Data:     "div",
			Attr:     []html.Attribute{{Key: "id", Val: renderOpts.mount}},
		}
	}

	nCfg := nc.ToNotice(renderOpts.key)
	nCfg.MountTarget = mount
	n := notice.New(nCfg, notice.WithLogger(logger))
	defer n.Destroy()

	node := n.Render()
	if node == nil {
		node = mount
	}

	logger.Debug("rendered notice", "key", n.Key(), "inline", mount == nil,
		"duration", time.Duration(nc.Duration))

	if err := html.Render(os.Stdout, node); err != nil {
		return fmt.Errorf("failed to write markup: %w", err)
	}
	fmt.Println()
	return nil
}

// renderConfig applies changed flags over the configured notice.
func renderConfig(cmd *cobra.Command, base config.NoticeConfig) config.NoticeConfig {
	nc := base
	flags := cmd.Flags()

	if flags.Changed("content") {
		nc.Content = renderOpts.content
	}
	if flags.Changed("class") {
		nc.Class = renderOpts.class
	}
	if flags.Changed("closable") {
		nc.Closable = renderOpts.closable
	}
	if len(renderOpts.attrs) > 0 {
		nc.Attributes = merge(base.Attributes, renderOpts.attrs)
	}
	if len(renderOpts.style) > 0 {
		nc.Style = merge(base.Style, renderOpts.style)
	}
	return nc
}

func merge(base, over map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
