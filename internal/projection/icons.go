package projection

import "strings"

// DefaultIcon is used for folders whose title matches no keyword.
const DefaultIcon = "📁"

type iconRule struct {
	keywords []string
	icon     string
}

// iconRules is matched in order; the first rule with a keyword contained in
// the lowercased folder title wins.
var iconRules = []iconRule{
	{[]string{"work", "job", "office", "工作"}, "💼"},
	{[]string{"study", "learn", "course", "学习"}, "📚"},
	{[]string{"dev", "code", "program", "tech", "开发", "技术"}, "💻"},
	{[]string{"news", "新闻"}, "📰"},
	{[]string{"music", "音乐"}, "🎵"},
	{[]string{"video", "movie", "视频"}, "🎬"},
	{[]string{"shop", "购物"}, "🛒"},
	{[]string{"social", "社交"}, "💬"},
	{[]string{"game", "游戏"}, "🎮"},
	{[]string{"design", "设计"}, "🎨"},
	{[]string{"tool", "工具"}, "🔧"},
	{[]string{"read", "阅读"}, "📖"},
	{[]string{"travel", "旅行"}, "✈️"},
	{[]string{"finance", "money", "理财"}, "💰"},
}

// IconFor picks a folder icon from its title.
func IconFor(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range iconRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.icon
			}
		}
	}
	return DefaultIcon
}
