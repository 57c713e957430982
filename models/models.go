package models

// All 需要迁移的表
func All() []any {
	return []any{
		&Account{},
		&Users{},
		&UserFollow{},
		&Post{},
		&PostLike{},
		&Comment{},
		&Story{},
		&StoryView{},
		&Notification{},
		&Image{},
	}
}
