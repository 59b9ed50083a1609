package main

import (
	"fmt"
	"strings"
)

// shells lists the completion command's own arguments.
var shells = []string{string(ShellBash), string(ShellZsh), string(ShellFish), string(ShellPowerShell)}

// globExts turns "*.yaml,*.yml" into ["yaml", "yml"].
func globExts(glob string) []string {
	var exts []string
	for _, g := range strings.Split(glob, ",") {
		if ext := strings.TrimPrefix(strings.TrimSpace(g), "*."); ext != "" {
			exts = append(exts, ext)
		}
	}
	return exts
}

func inputExts() []string {
	return globExts(strings.Join(inputGlobs, ","))
}

// ---------------------------------------------------------------------------
// Bash
// ---------------------------------------------------------------------------

func writeBash(b *strings.Builder, flags []flagDef, commands []commandDef) {
	var names, cmdNames []string
	for _, f := range flags {
		names = append(names, "--"+f.Long)
		if f.Short != "" {
			names = append(names, "-"+f.Short)
		}
	}
	for _, c := range commands {
		cmdNames = append(cmdNames, c.Name)
	}
	inputs := fmt.Sprintf("compgen -f -X '!*.@(%s)' -- \"$cur\"", strings.Join(inputExts(), "|"))

	b.WriteString("# bash completion for bp2html\n")
	b.WriteString("_bp2html_completions() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	b.WriteString("    if [[ \"${COMP_WORDS[1]}\" == completion ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(shells, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    case \"$prev\" in\n")
	for _, f := range flags {
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n            return ;;\n",
				pattern, strings.Join(f.Values, " "))
		case flagFile:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=($(compgen -f -X '!*.@(%s)' -- \"$cur\") $(compgen -d -- \"$cur\"))\n            return ;;\n",
				pattern, strings.Join(globExts(f.FileGlob), "|"))
		case flagDir:
			fmt.Fprintf(b, "        %s)\n            COMPREPLY=($(compgen -d -- \"$cur\"))\n            return ;;\n", pattern)
		case flagString, flagInt:
			fmt.Fprintf(b, "        %s)\n            return ;;\n", pattern)
		}
	}
	b.WriteString("    esac\n\n")

	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(names, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")

	b.WriteString("    if [[ $COMP_CWORD -eq 1 ]]; then\n")
	fmt.Fprintf(b, "        COMPREPLY=($(compgen -W \"%s\" -- \"$cur\"))\n", strings.Join(cmdNames, " "))
	b.WriteString("    fi\n")
	fmt.Fprintf(b, "    COMPREPLY+=($(%s) $(compgen -d -- \"$cur\"))\n", inputs)
	b.WriteString("}\n\n")
	b.WriteString("complete -o filenames -F _bp2html_completions bp2html\n")
}

// ---------------------------------------------------------------------------
// Zsh
// ---------------------------------------------------------------------------

// zshEscape escapes a description for an _arguments spec.
func zshEscape(s string) string {
	r := strings.NewReplacer("'", `'\''`, "[", `\[`, "]", `\]`, ":", `\:`)
	return r.Replace(s)
}

func writeZsh(b *strings.Builder, flags []flagDef, commands []commandDef) {
	inputGlob := fmt.Sprintf("*.(%s)", strings.Join(inputExts(), "|"))

	b.WriteString("#compdef bp2html\n\n")
	b.WriteString("_bp2html_first() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(b, "        '%s:%s'\n", c.Name, zshEscape(c.Desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    _describe -t commands 'command' commands\n")
	fmt.Fprintf(b, "    _files -g '%s'\n", inputGlob)
	b.WriteString("}\n\n")

	b.WriteString("_bp2html() {\n")
	b.WriteString("    if [[ \"${words[2]}\" == completion ]]; then\n")
	fmt.Fprintf(b, "        _values 'shell' %s\n", strings.Join(shells, " "))
	b.WriteString("        return\n")
	b.WriteString("    fi\n\n")
	b.WriteString("    _arguments -s \\\n")
	for _, f := range flags {
		fmt.Fprintf(b, "        %s \\\n", zshFlagSpec(f))
	}
	b.WriteString("        '1: :_bp2html_first' \\\n")
	fmt.Fprintf(b, "        '*:input:_files -g \"%s\"'\n", inputGlob)
	b.WriteString("}\n\n")
	b.WriteString("if [ \"$funcstack[1]\" = \"_bp2html\" ]; then\n")
	b.WriteString("    _bp2html \"$@\"\n")
	b.WriteString("else\n")
	b.WriteString("    compdef _bp2html bp2html\n")
	b.WriteString("fi\n")
}

// zshFlagSpec returns the _arguments spec of f.
func zshFlagSpec(f flagDef) string {
	var action string
	switch f.Type {
	case flagBool:
		action = ""
	case flagEnum:
		action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
	case flagFile:
		action = fmt.Sprintf(":%s:_files -g \"*.(%s)\"", f.Long, strings.Join(globExts(f.FileGlob), "|"))
	case flagDir:
		action = fmt.Sprintf(":%s:_files -/", f.Long)
	case flagString, flagInt:
		action = fmt.Sprintf(":%s: ", f.Long)
	}

	desc := "[" + zshEscape(f.Desc) + "]"
	repeat := ""
	if f.Long == "local" {
		repeat = "*"
	}
	if f.Short == "" {
		return fmt.Sprintf("'%s--%s%s%s'", repeat, f.Long, desc, action)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'%s%s'", f.Short, f.Long, f.Short, f.Long, desc, action)
}

// ---------------------------------------------------------------------------
// Fish
// ---------------------------------------------------------------------------

func fishEscape(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}

func writeFish(b *strings.Builder, flags []flagDef, commands []commandDef) {
	b.WriteString("# fish completion for bp2html\n\n")
	b.WriteString("function __fish_bp2html_needs_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -eq 1\n")
	b.WriteString("end\n\n")
	b.WriteString("function __fish_bp2html_using_command\n")
	b.WriteString("    set -l cmd (commandline -opc)\n")
	b.WriteString("    test (count $cmd) -gt 1; and contains -- $cmd[2] $argv\n")
	b.WriteString("end\n\n")

	for _, c := range commands {
		fmt.Fprintf(b, "complete -c bp2html -n __fish_bp2html_needs_command -f -a %s -d '%s'\n", c.Name, fishEscape(c.Desc))
	}
	fmt.Fprintf(b, "complete -c bp2html -n '__fish_bp2html_using_command completion' -f -a '%s'\n", strings.Join(shells, " "))
	b.WriteString("\n")

	for _, f := range flags {
		var line strings.Builder
		line.WriteString("complete -c bp2html")
		if f.Short != "" {
			fmt.Fprintf(&line, " -s %s", f.Short)
		}
		fmt.Fprintf(&line, " -l %s", f.Long)
		switch f.Type {
		case flagEnum:
			fmt.Fprintf(&line, " -x -a '%s'", strings.Join(f.Values, " "))
		case flagFile:
			line.WriteString(" -r -F")
		case flagDir:
			line.WriteString(" -x -a '(__fish_complete_directories)'")
		case flagString, flagInt:
			line.WriteString(" -x")
		}
		fmt.Fprintf(&line, " -d '%s'\n", fishEscape(f.Desc))
		b.WriteString(line.String())
	}
}

// ---------------------------------------------------------------------------
// PowerShell
// ---------------------------------------------------------------------------

func psEscape(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func writePowerShell(b *strings.Builder, flags []flagDef, commands []commandDef) {
	b.WriteString("# PowerShell completion for bp2html\n")
	b.WriteString("Register-ArgumentCompleter -Native -CommandName bp2html -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")

	b.WriteString("    $commands = @(\n")
	for _, c := range commands {
		fmt.Fprintf(b, "        @{ Name = '%s'; Desc = '%s' }\n", c.Name, psEscape(c.Desc))
	}
	b.WriteString("    )\n")
	b.WriteString("    $flags = @(\n")
	for _, f := range flags {
		fmt.Fprintf(b, "        @{ Name = '--%s'; Desc = '%s' }\n", f.Long, psEscape(f.Desc))
		if f.Short != "" {
			fmt.Fprintf(b, "        @{ Name = '-%s'; Desc = '%s' }\n", f.Short, psEscape(f.Desc))
		}
	}
	b.WriteString("    )\n\n")

	b.WriteString("    $elements = $commandAst.CommandElements\n")
	b.WriteString("    if ($elements.Count -ge 2 -and $elements[1].ToString() -eq 'completion') {\n")
	fmt.Fprintf(b, "        '%s' | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n", strings.Join(shells, "', '"))
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($wordToComplete -like '-*') {\n")
	b.WriteString("        $flags | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Desc)\n")
	b.WriteString("        }\n")
	b.WriteString("        return\n")
	b.WriteString("    }\n\n")

	b.WriteString("    if ($elements.Count -le 2) {\n")
	b.WriteString("        $commands | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("            [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'Command', $_.Desc)\n")
	b.WriteString("        }\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
}
