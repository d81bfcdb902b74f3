package domain

// BootstrapData describes the admin account created when the user table is
// empty at startup.
type BootstrapData struct {
	AdminLoginID     string
	AdminDisplayName string
	AdminEmail       string

	// AdminPassword may be empty, in which case a random one is generated
	// and logged once.
	AdminPassword string
}
