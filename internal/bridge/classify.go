package bridge

import "regexp"

// guildLinePattern matches `Guild > [rank] name [tag]: content`. Rank and
// guild tag are optional. This is the single parsing surface for the game
// side; server formatting drift breaks it silently, hence the fixture tests.
var guildLinePattern = regexp.MustCompile(`^Guild > (?:\[[^\]]+\] )?(\S+)(?: \[[^\]]+\])?: (.+)$`)

// mentionPattern covers broadcast tokens and raw user mentions.
var mentionPattern = regexp.MustCompile(`@everyone|@here|<@!?[0-9]+>`)

// ClassifyGuildLine extracts the speaking player and their message from a
// raw chat line. ok is false for anything that is not guild chat.
func ClassifyGuildLine(line string) (author, content string, ok bool) {
	m := guildLinePattern.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// StripMentions removes broadcast and mention tokens from content.
func StripMentions(s string) string {
	return mentionPattern.ReplaceAllString(s, "")
}
