// SPDX-License-Identifier: MPL-2.0

package foundry

// ForSignal returns the catalog exit code for a POSIX signal number. Only
// signals with catalog entries are reported; for any other signal the
// conventional 128+n status is returned with ok false.
func ForSignal(signal int) (ExitCode, bool) {
	if code, ok := bySignal[signal]; ok {
		return code, true
	}
	return ExitCode(signalBase + signal), false
}

// IsSignal reports whether c is in the signal range (128 + n).
func (c ExitCode) IsSignal() bool {
	return c > signalBase && c <= 255
}

// SignalName returns the signal name (e.g. "SIGTERM") for catalog signal
// codes, or "".
func (c ExitCode) SignalName() string { return c.Info().SignalName }
