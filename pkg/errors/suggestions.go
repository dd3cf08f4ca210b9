package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryClock:
		return g.generateClockSuggestions(affectedPath)
	case CategoryClockRestore:
		return g.generateClockRestoreSuggestions(affectedPath)
	case CategorySignal:
		return g.generateSignalSuggestions(affectedPath)
	case CategoryTimestamp:
		return g.generateTimestampSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateClockRestoreSuggestions(_ string) []string {
	return []string{
		"The system clock is probably wrong now: check it with 'date'",
		"Resynchronise from the hardware clock with 'hwclock --hctosys'",
		"Or step it from NTP with 'chronyc makestep' or 'ntpdate -u pool.ntp.org'",
		"Do not run touch-ctime again until the clock is correct",
	}
}

func (g *suggestionGenerator) generateClockSuggestions(_ string) []string {
	return []string{
		"Setting the system clock requires root or the CAP_SYS_TIME capability",
		"Containers usually cannot set the host clock; run on the host instead",
		"Check that the target time is after 1970-01-01 and representable by the kernel",
	}
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Ensure all parent directories exist for "+path)
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Moving the system clock requires root or CAP_SYS_TIME (try sudo, or 'setcap cap_sys_time+ep')",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check ownership with 'ls -la %s': only the owner or root may chmod it", path))
	} else {
		suggestions = append(suggestions, "Check ownership with 'ls -la' on the affected path")
	}

	suggestions = append(suggestions, "Make sure the filesystem is not mounted read-only")

	return suggestions
}

func (g *suggestionGenerator) generateSignalSuggestions(_ string) []string {
	return []string{
		"The signal mask could not be changed, so the clock was not touched",
		"Check for seccomp or sandbox profiles that forbid rt_sigprocmask",
	}
}

func (g *suggestionGenerator) generateTimestampSuggestions(_ string) []string {
	return []string{
		"Use 'YYYY-MM-DD hh:mm:ss' or '[[[YYYY:]MM:]DD:]hh:mm:ss[.ffffff]'",
		"Pass a Go layout with --format, or --format unix for epoch seconds",
		"Use only one of -a, -m and -t, and only one of -r and -t",
	}
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Run again with --verbose for a step-by-step log",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
