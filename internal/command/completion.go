// Copyright © 2026 Steve Taranto staranto@gmail.com
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v3"
)

const bashCompletionScript = `# bash completion for famo
# Fallback if bash-completion is not installed
if ! declare -F _get_comp_words_by_ref >/dev/null 2>&1; then
  _get_comp_words_by_ref() {
    cur=${COMP_WORDS[COMP_CWORD]}
    prev=${COMP_WORDS[COMP_CWORD-1]}
  }
fi

_famo()
{
    local cur prev cmd
    COMPREPLY=()
    _get_comp_words_by_ref -n : cur prev

    local store="--store --bucket -b --endpoint -e --region -r --access_key_id --secret_access_key --cache-dir"
    local common="--digest --log-level --tldr --verbose $store"

    case "$prev" in
        --store)
            COMPREPLY=( $(compgen -W "s3 signed local" -- "$cur") )
            return 0
            ;;
        --codec)
            COMPREPLY=( $(compgen -W "gzip zstd lz4 none" -- "$cur") )
            return 0
            ;;
        --digest)
            COMPREPLY=( $(compgen -W "sha256 blake3 blake2b" -- "$cur") )
            return 0
            ;;
        --log-level)
            COMPREPLY=( $(compgen -W "debug info warn error" -- "$cur") )
            return 0
            ;;
        --archive|-a|--cache-dir)
            COMPREPLY=( $(compgen -o dirnames -- "$cur") )
            return 0
            ;;
    esac

    if [[ ${COMP_CWORD} -eq 1 && "$cur" != -* ]]; then
        COMPREPLY=( $(compgen -W "hash detect purge completion" -- "$cur") $(compgen -f -- "$cur") )
        return 0
    fi

    cmd=${COMP_WORDS[1]}
    case "$cmd" in
        hash)
            local opts="$common"
            ;;
        detect)
            if [[ "$cur" != -* ]]; then
                COMPREPLY=( $(compgen -W "rust yarn node_js ruby crystal" -- "$cur") )
                return 0
            fi
            local opts="--tldr"
            ;;
        purge)
            local opts="--older-than --cache-dir --tldr"
            ;;
        completion)
            COMPREPLY=( $(compgen -W "bash zsh" -- "$cur") )
            return 0
            ;;
        *)
            local opts="$common --key -k --archive -a --command -c --codec --async --help --version"
            ;;
    esac

    if [[ "$cur" == -* ]]; then
        COMPREPLY=( $(compgen -W "$opts" -- "$cur") )
        return 0
    fi

    # Otherwise, complete watch paths.
    COMPREPLY=( $(compgen -f -- "$cur") )
    return 0
}

complete -F _famo famo
`

const zshCompletionScript = `#compdef famo

_famo() {
  local -a cmds
  cmds=(
    'hash:print the cache key of the watched inputs'
    'detect:show the detected or named toolchain and its defaults'
    'purge:remove old artifacts from the local store'
    'completion:generate shell completion script'
  )

  local -a common
  common=(
  '--digest[per-file digest]:digest:(sha256 blake3 blake2b)'
  '--log-level[log level]:level:(debug info warn error)'
  '--tldr[show tldr page]'
  '--verbose[show the build output]'
  '--store[object store backend]:store:(s3 signed local)'
  '(-b --bucket)'{-b,--bucket}'[bucket]:bucket'
  '(-e --endpoint)'{-e,--endpoint}'[endpoint]:endpoint'
  '(-r --region)'{-r,--region}'[region]:region'
  '--access_key_id[access key id]:id'
  '--secret_access_key[secret access key]:secret'
  '--cache-dir[local store directory]:dir:_directories'
  )

  if (( CURRENT == 2 )) && [[ $words[2] != -* ]]; then
    _alternative 'commands:famo commands:(( ${cmds} ))' 'files:watch:_files'
    return
  fi

  local curcontext="$curcontext" state line
  case $words[2] in
    hash)
      _arguments -C $common '*:watch:_files'
      ;;
    detect)
      _arguments -C '--tldr[show tldr page]' '1:toolchain:(rust yarn node_js ruby crystal)'
      ;;
    purge)
      _arguments -C \
        '--older-than[age beyond which artifacts are removed]:duration' \
        '--cache-dir[local store directory]:dir:_directories' \
        '--tldr[show tldr page]'
      ;;
    completion)
      _arguments '1: :((bash zsh))'
      ;;
    *)
      _arguments -C \
        $common \
        '(-k --key)'{-k,--key}'[key prefix]:prefix' \
        '(-a --archive)'{-a,--archive}'[build output directory]:dir:_directories' \
        '(-c --command)'{-c,--command}'[build command]:command' \
        '--codec[upload compression]:codec:(gzip zstd lz4 none)' \
        '--async[upload in the background]' \
        '*:watch:_files'
      ;;
  esac
}

# If this file is sourced directly (not autoloaded via fpath), ensure compsys is initialized and register the completion
if ! typeset -f compdef >/dev/null 2>&1; then
  autoload -Uz compinit && compinit -i
fi
compdef _famo famo
`

func CompletionCommandAction(ctx context.Context, cmd *cli.Command) error {
	shell := ""
	if args := cmd.Args().Slice(); len(args) > 0 {
		shell = args[0]
	}
	w := cmd.Root().Writer
	if shell == "" {
		// Try to detect from SHELL.
		sh := os.Getenv("SHELL")
		switch {
		case strings.HasSuffix(sh, "zsh"):
			shell = "zsh"
		case strings.HasSuffix(sh, "bash"):
			shell = "bash"
		}
	}
	switch shell {
	case "bash":
		fmt.Fprint(w, bashCompletionScript)
	case "zsh":
		fmt.Fprint(w, zshCompletionScript)
	default:
		fmt.Fprintln(cmd.Root().ErrWriter, "usage: famo completion [bash|zsh]")
	}
	return nil
}

func CompletionCommandBuilder() *cli.Command {
	return &cli.Command{
		Name:      "completion",
		Usage:     "generate shell completion script",
		UsageText: "famo completion [bash|zsh]",
		Action:    CompletionCommandAction,
	}
}
