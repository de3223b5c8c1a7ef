package generator

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"

	"github.com/de6igz/trend-agent/internal/domain"
)

// Template строит контент по статическим шаблонам платформ.
type Template struct {
	mu   sync.Mutex
	rand *rand.Rand
}

var _ domain.Generator = (*Template)(nil)

// NewTemplate создаёт шаблонный генератор контента.
func NewTemplate(seed int64) *Template {
	return &Template{rand: rand.New(rand.NewSource(seed))}
}

// GenerateAll строит по одному элементу контента на каждую известную
// платформу из списка; неизвестные платформы пропускаются.
func (g *Template) GenerateAll(topic domain.Topic, platforms []string) ([]domain.ContentItem, error) {
	items := make([]domain.ContentItem, 0, len(platforms))
	for _, platform := range platforms {
		switch platform {
		case "LinkedIn":
			items = append(items, g.linkedIn(topic))
		case "Twitter":
			items = append(items, g.twitter(topic))
		case "Facebook":
			items = append(items, g.facebook(topic))
		case "Instagram":
			items = append(items, g.instagram(topic))
		case "TikTok":
			items = append(items, g.tikTok(topic))
		case "YouTube":
			items = append(items, g.youTube(topic))
		case "Pinterest":
			items = append(items, g.pinterest(topic))
		}
	}
	return items, nil
}

var linkedInHooks = []string{
	"Here's what everyone is missing about",
	"The truth about",
	"Why",
	"What I learned from",
	"The future of",
}

func (g *Template) pickHook() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return linkedInHooks[g.rand.Intn(len(linkedInHooks))]
}

func (g *Template) linkedIn(topic domain.Topic) domain.ContentItem {
	body := fmt.Sprintf(`%s %s

%s

This development has significant implications for:
• Businesses leveraging AI automation
• Developers building intelligent systems
• Companies seeking competitive advantage through AI

Want to stay ahead in the AI revolution? Follow for daily insights on AI automation and how to implement these technologies in your business.`,
		g.pickHook(), topic.Title, expand(topic.Description, toneProfessional))

	return domain.ContentItem{
		Platform:    "LinkedIn",
		Title:       topic.Title,
		Body:        body,
		Hashtags:    hashtags(topic, "linkedin"),
		ImagePrompt: imagePrompt(topic, "professional"),
	}
}

func (g *Template) twitter(topic domain.Topic) domain.ContentItem {
	shortTitle := topic.Title
	if runes := []rune(shortTitle); len(runes) > 100 {
		shortTitle = string(runes[:97]) + "..."
	}
	body := fmt.Sprintf(`%s

This changes everything. 🧵

Follow for a daily AI briefing.`, shortTitle)

	return domain.ContentItem{
		Platform:    "Twitter",
		Title:       shortTitle,
		Body:        body,
		Hashtags:    hashtags(topic, "twitter"),
		ImagePrompt: imagePrompt(topic, "modern"),
	}
}

func (g *Template) facebook(topic domain.Topic) domain.ContentItem {
	body := fmt.Sprintf(`🤖 %s

%s

The AI revolution is happening NOW, and businesses that don't adapt will be left behind.

Here's what this means for you:
→ More automation possibilities
→ Lower operational costs
→ Better customer experiences
→ Competitive advantages

👉 Follow for daily AI updates and automation tips`,
		topic.Title, expand(topic.Description, toneConversational))

	return domain.ContentItem{
		Platform:    "Facebook",
		Title:       topic.Title,
		Body:        body,
		Hashtags:    hashtags(topic, "facebook"),
		ImagePrompt: imagePrompt(topic, "engaging"),
	}
}

func (g *Template) instagram(topic domain.Topic) domain.ContentItem {
	body := fmt.Sprintf(`%s ✨

The future is here, and it's powered by AI 🚀

Swipe to learn how this impacts YOU →

AI is transforming how we:
💼 Work
🎨 Create
💡 Innovate
📈 Grow businesses

Follow for daily AI insights and automation strategies that actually work.`, topic.Title)

	return domain.ContentItem{
		Platform:    "Instagram",
		Title:       topic.Title,
		Body:        body,
		Hashtags:    hashtags(topic, "instagram"),
		ImagePrompt: imagePrompt(topic, "vibrant"),
	}
}

func (g *Template) tikTok(topic domain.Topic) domain.ContentItem {
	body := fmt.Sprintf(`[HOOK - First 3 seconds]
🚨 This AI breakthrough will change everything

[Content - Next 10 seconds]
%s

Here's why it matters:
• %s
• %s
• %s

[CTA - Last 3 seconds]
Follow for daily AI updates! 🚀`,
		topic.Title,
		bullet(topic.Description, 1),
		bullet(topic.Description, 2),
		bullet(topic.Description, 3))

	return domain.ContentItem{
		Platform:    "TikTok",
		Title:       topic.Title,
		Body:        body,
		Hashtags:    hashtags(topic, "tiktok"),
		ImagePrompt: imagePrompt(topic, "dynamic"),
	}
}

func (g *Template) youTube(topic domain.Topic) domain.ContentItem {
	body := fmt.Sprintf(`%s | AI Automation Explained

[VIDEO SCRIPT]

0:00 - Hook: "This AI development changes everything for businesses"
0:05 - Introduction to the topic
0:15 - Explain: %s
0:45 - Why this matters
1:15 - Real-world applications
1:45 - How to implement this
2:30 - Common mistakes to avoid
2:50 - Call to action

⏰ TIMESTAMPS
0:00 - Introduction
0:15 - The Development
0:45 - Why It Matters
1:15 - Real Applications
1:45 - Implementation Guide
2:30 - Common Mistakes
2:50 - Conclusion`, topic.Title, topic.Description)

	return domain.ContentItem{
		Platform:    "YouTube",
		Title:       topic.Title,
		Body:        body,
		Hashtags:    hashtags(topic, "youtube"),
		ImagePrompt: imagePrompt(topic, "thumbnail"),
	}
}

func (g *Template) pinterest(topic domain.Topic) domain.ContentItem {
	body := fmt.Sprintf(`%s | AI Automation Guide

Discover how this AI breakthrough can transform your business.

✨ What's Inside:
→ Complete explanation of this AI development
→ Step-by-step implementation guide
→ Free tools and resources
→ Real business applications
→ Automation strategies

Save this pin for later! 📌`, topic.Title)

	return domain.ContentItem{
		Platform:    "Pinterest",
		Title:       topic.Title,
		Body:        body,
		Hashtags:    hashtags(topic, "pinterest"),
		ImagePrompt: imagePrompt(topic, "infographic"),
	}
}

type tone int

const (
	toneProfessional tone = iota
	toneConversational
)

func expand(description string, t tone) string {
	expanded := truncateRunes(description, 300)
	if t == toneProfessional {
		return expanded + `

This represents a significant advancement in the AI landscape. As automation becomes more accessible, businesses of all sizes can leverage these technologies to streamline operations and drive growth.`
	}
	return expanded + `

I've been following this space closely, and let me tell you - this is game-changing. We're witnessing a shift in how businesses operate.`
}

func bullet(text string, index int) string {
	sentences := make([]string, 0)
	for _, s := range strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if trimmed := strings.TrimSpace(s); len(trimmed) > 10 {
			sentences = append(sentences, trimmed)
		}
	}
	if index < len(sentences) {
		return truncateRunes(sentences[index], 60) + "..."
	}
	return "AI is transforming industries"
}

// truncateRunes обрезает строку до limit символов, не разрывая руны.
func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

var baseHashtags = []string{"AI", "ArtificialIntelligence", "MachineLearning", "Automation", "Technology"}

var platformHashtags = map[string][]string{
	"linkedin":  {"BusinessAutomation", "DigitalTransformation", "Innovation", "FutureOfWork"},
	"twitter":   {"AINews", "TechNews", "StartUp"},
	"facebook":  {"SmallBusiness", "Entrepreneur", "BusinessTips"},
	"instagram": {"AIArt", "TechLife", "Innovation", "FutureIsNow"},
	"tiktok":    {"AITikTok", "TechTok", "LearnOnTikTok"},
	"youtube":   {"AIExplained", "TechTutorial"},
	"pinterest": {"AITools", "BusinessTools", "Productivity"},
}

func hashtags(topic domain.Topic, platform string) []string {
	tags := make([]string, 0, len(baseHashtags)+len(topic.Keywords)+4)
	tags = append(tags, baseHashtags...)
	for _, keyword := range topic.Keywords {
		if keyword == "" {
			continue
		}
		tags = append(tags, strings.ToUpper(keyword[:1])+keyword[1:])
	}
	tags = append(tags, platformHashtags[platform]...)

	limit := 10
	if platform == "instagram" {
		limit = 30
	}
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags
}

var imageStyles = map[string]string{
	"professional": "professional, corporate, clean, modern, business setting",
	"modern":       "modern, sleek, minimalist, tech-focused",
	"engaging":     "colorful, engaging, eye-catching, social media style",
	"vibrant":      "vibrant colors, Instagram aesthetic, visually striking",
	"dynamic":      "dynamic, energetic, fast-paced, short-form video style",
	"thumbnail":    "YouTube thumbnail, bold text, high contrast, attention-grabbing",
	"infographic":  "infographic style, Pinterest-friendly, informative, clean layout",
}

func imagePrompt(topic domain.Topic, style string) string {
	return fmt.Sprintf("%s, %s, AI theme, futuristic elements, high quality, professional photography", topic.Title, imageStyles[style])
}
