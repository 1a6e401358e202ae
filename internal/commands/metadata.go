package commands

// Category groups commands in the help reference.
type Category string

const (
	CategoryText  Category = "text"
	CategoryCode  Category = "code"
	CategoryChat  Category = "chat"
	CategoryUtils Category = "utils"
)

// CategoryInfo contains display information for a category.
type CategoryInfo struct {
	ID       Category
	Name     string
	Icon     string
	Priority int // Lower is shown first
}

// GetCategoryInfo returns display information for a category.
func GetCategoryInfo(cat Category) CategoryInfo {
	info, ok := categoryInfoMap[cat]
	if !ok {
		return CategoryInfo{ID: cat, Name: string(cat), Icon: "?", Priority: 999}
	}
	return info
}

// GetAllCategories returns all categories in display order.
func GetAllCategories() []CategoryInfo {
	return []CategoryInfo{
		categoryInfoMap[CategoryText],
		categoryInfoMap[CategoryCode],
		categoryInfoMap[CategoryChat],
		categoryInfoMap[CategoryUtils],
	}
}

var categoryInfoMap = map[Category]CategoryInfo{
	CategoryText:  {ID: CategoryText, Name: "Text", Icon: "📝", Priority: 0},
	CategoryCode:  {ID: CategoryCode, Name: "Code", Icon: "💻", Priority: 1},
	CategoryChat:  {ID: CategoryChat, Name: "Chat", Icon: "💬", Priority: 2},
	CategoryUtils: {ID: CategoryUtils, Name: "Utils", Icon: "🔧", Priority: 3},
}

// Group is one category of the help reference with its commands.
type Group struct {
	Info     CategoryInfo
	Commands []Command
}

// ByCategory groups the registry's commands in category display order.
// Empty categories are omitted.
func (r *Registry) ByCategory() []Group {
	var groups []Group
	for _, info := range GetAllCategories() {
		var cmds []Command
		for _, cmd := range r.commands {
			if cmd.Category == info.ID {
				cmds = append(cmds, cmd)
			}
		}
		if len(cmds) > 0 {
			groups = append(groups, Group{Info: info, Commands: cmds})
		}
	}
	return groups
}

// quickCommands are shown in the startup help panel.
var quickCommands = []ID{Summarize, Respond, CodeReview, Reword, FollowUp}

// Quick returns the commands shown in the startup help panel.
func (r *Registry) Quick() []Command {
	out := make([]Command, 0, len(quickCommands))
	for _, id := range quickCommands {
		if cmd, ok := r.byID[id]; ok {
			out = append(out, cmd)
		}
	}
	return out
}
