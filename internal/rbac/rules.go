package rbac

// Default policy for the practice service.
var RolePermissions = map[string][]string{
	"student": {
		"catalog:view",
		"practice:run",
		"session:view-own",
	},
	"admin": {
		"*", // everything, including content:write and session:view-all
	},
}
