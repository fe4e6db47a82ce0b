package rbac

const (
	PermDataRead      = "data:read"
	PermDatasetImport = "dataset:import"
	PermCoverageView  = "coverage:view"
)

// Viewers are anyone who accepted the usage agreement.
var RolePermissions = map[string][]string{
	"viewer": {
		"data:*",
		PermCoverageView,
	},
	"admin": {
		"*", // everything
	},
}
