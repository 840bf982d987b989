//revive:disable-next-line:var-naming // legacy package name used across the project
package model

// Permission category names.
const (
	CategoryWorkspace = "WORKSPACE"
	CategoryEvent     = "EVENT"
	CategoryTask      = "TASK"
)

// Permission names. The catalog is data; these constants exist for call sites that
// gate behavior on a specific capability.
const (
	PermRenameWorkspace    = "RENAME_WORKSPACE"
	PermInviteMember       = "INVITE_MEMBER"
	PermSendInviteLink     = "SEND_INVITE_LINK"
	PermApproveJoinRequest = "APPROVE_JOIN_REQUEST"
	PermRemoveMember       = "REMOVE_MEMBER"
	PermDeleteWorkspace    = "DELETE_WORKSPACE"
	PermManageRoles        = "MANAGE_ROLES"
	PermCreateEvent        = "CREATE_EVENT"
	PermDeleteEvent        = "DELETE_EVENT"
	PermEditEvent          = "EDIT_EVENT"
	PermCreateTask         = "CREATE_TASK"
	PermEditTask           = "EDIT_TASK"
	PermDeleteTask         = "DELETE_TASK"
)

// PermissionCategory groups permissions for display.
type PermissionCategory struct {
	ID   string `json:"id"   db:"id"`
	Name string `json:"name" db:"name"`
}

// Permission is a named capability from the global catalog.
type Permission struct {
	ID         string `json:"id"         db:"id"`
	Name       string `json:"name"       db:"name"`
	Label      string `json:"label"      db:"label"`
	CategoryID string `json:"categoryId" db:"category_id"`
}

// CatalogCategory is a category with its permissions, as listed by the API.
type CatalogCategory struct {
	PermissionCategory
	Permissions []Permission `json:"permissions"`
}

// PermissionSeed is one catalog entry to upsert.
type PermissionSeed struct {
	Name  string
	Label string
}

// CategorySeed is a category and the permissions it owns.
type CategorySeed struct {
	Name        string
	Permissions []PermissionSeed
}

// DefaultCatalog returns the permission catalog seeded on startup.
func DefaultCatalog() []CategorySeed {
	return []CategorySeed{
		{
			Name: CategoryWorkspace,
			Permissions: []PermissionSeed{
				{Name: PermRenameWorkspace, Label: "Rename workspace name or slug"},
				{Name: PermInviteMember, Label: "Invite new members"},
				{Name: PermSendInviteLink, Label: "Send invite link"},
				{Name: PermApproveJoinRequest, Label: "Approve/reject join requests"},
				{Name: PermRemoveMember, Label: "Remove members from workspace"},
				{Name: PermDeleteWorkspace, Label: "Delete the workspace"},
				{Name: PermManageRoles, Label: "Create and edit roles"},
			},
		},
		{
			Name: CategoryEvent,
			Permissions: []PermissionSeed{
				{Name: PermCreateEvent, Label: "Create new events"},
				{Name: PermDeleteEvent, Label: "Delete events"},
				{Name: PermEditEvent, Label: "Edit event details"},
			},
		},
		{
			Name: CategoryTask,
			Permissions: []PermissionSeed{
				{Name: PermCreateTask, Label: "Create tasks"},
				{Name: PermEditTask, Label: "Edit tasks"},
				{Name: PermDeleteTask, Label: "Delete tasks"},
			},
		},
	}
}
