package commands

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagKeys maps command flags to config keys. Only flags the user set are
// copied, so unset toggles keep the preset's value.
var flagKeys = map[string]string{
	"preset":                  "preset",
	"remove-comments":         "remove_comments",
	"collapse-whitespace":     "collapse_whitespace",
	"trim-attr-whitespace":    "trim_attr_whitespace",
	"remove-empty-attributes": "remove_empty_attributes",
	"boolean-attr-shortening": "boolean_attr_shortening",
	"remove-default-type":     "remove_default_type",
	"keep-marker":             "keep_markers",
	"preserve-tag":            "preserve_tags",
	"concurrency":             "concurrency",
	"max-size":                "fetch.max_size",
	"timeout":                 "fetch.timeout",
	"user-agent":              "fetch.user_agent",
}

// addMinifyFlags registers the minifier option flags.
func addMinifyFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("preset", "p", "", "preset: default, safe, aggressive")
	flags.Bool("remove-comments", false, "remove comments without a keep marker")
	flags.Bool("collapse-whitespace", false, "collapse whitespace between and inside tags")
	flags.Bool("trim-attr-whitespace", false, "trim whitespace in attribute lists and values")
	flags.Bool("remove-empty-attributes", false, `remove attributes with empty values (a="")`)
	flags.Bool("boolean-attr-shortening", false, `shorten boolean attributes (disabled="disabled" -> disabled)`)
	flags.Bool("remove-default-type", false, `remove type="text/javascript" and type="text/css"`)
	flags.StringSlice("keep-marker", nil, "comment marker word that protects a comment (repeatable)")
	flags.StringSlice("preserve-tag", nil, "element whose content is kept verbatim (repeatable, replaces the defaults)")
	flags.Bool("no-preserve", false, "preserve no elements at all")
	flags.Int("concurrency", 0, "plain regions rewritten in parallel (0 or 1 = sequential)")
}

// applyFlags copies every flag the user set on cmd into viper.
func applyFlags(cmd *cobra.Command) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if f.Name == "no-preserve" {
			if f.Value.String() == "true" {
				viper.Set("preserve_tags", []string{})
			}
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		viper.Set(key, flagValue(cmd.Flags(), f))
	})
}

func flagValue(flags *pflag.FlagSet, f *pflag.Flag) any {
	switch f.Value.Type() {
	case "bool":
		v, _ := flags.GetBool(f.Name)
		return v
	case "int":
		v, _ := flags.GetInt(f.Name)
		return v
	case "duration":
		v, _ := flags.GetDuration(f.Name)
		return v
	case "stringSlice":
		v, _ := flags.GetStringSlice(f.Name)
		return v
	default:
		return f.Value.String()
	}
}
