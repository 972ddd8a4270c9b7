package core

const (
	// PrimaryDirPrefix names the undo log directory beside a target file.
	PrimaryDirPrefix = "changelog_"

	// SecondaryDirPrefix names the redo log directory beside a target file.
	SecondaryDirPrefix = "changelog_redo_"

	// QuarantineDirPrefix names the quarantine root beside a target file.
	QuarantineDirPrefix = "changelog_quarantine_"

	logDirMode     = 0755
	recordFileMode = 0644
)
