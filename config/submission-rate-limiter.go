package config

import "time"

// Cooldown configuration for wrong flag submissions
type SubmissionRateLimitConfig struct {
	AttemptsThreshold1 int           // Number of wrong attempts before first cooldown
	CooldownDuration1  time.Duration // First cooldown duration
	AttemptsThreshold2 int           // Number of wrong attempts before second cooldown
	CooldownDuration2  time.Duration // Second cooldown duration
	CounterTTL         time.Duration // How long a wrong-attempt counter lives without activity
}

var DefaultSubmissionRateLimitConfig = SubmissionRateLimitConfig{
	AttemptsThreshold1: 5,
	CooldownDuration1:  1 * time.Minute,
	AttemptsThreshold2: 10,
	CooldownDuration2:  5 * time.Minute,
	CounterTTL:         30 * time.Minute,
}
