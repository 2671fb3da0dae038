package tableinfo

const (
	PostsTableName = "posts"

	PostIDColumn       = "id"
	PostTextColumn     = "text"
	PostPubDateColumn  = "pub_date"
	PostAuthorIDColumn = "author_id"
	PostGroupIDColumn  = "group_id"
)

const (
	GroupsTableName = "post_groups"

	GroupIDColumn          = "id"
	GroupTitleColumn       = "title"
	GroupSlugColumn        = "slug"
	GroupDescriptionColumn = "description"
)

const (
	UsersTableName = "users"

	UserIDColumn           = "id"
	UserUsernameColumn     = "username"
	UserPasswordHashColumn = "password_hash"
	UserCreatedAtColumn    = "created_at"
)

// Qualified prefixes a column with its table, for joined selects.
func Qualified(table, column string) string {
	return table + "." + column
}
