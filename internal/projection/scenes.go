package projection

import "fmt"

var sceneColors = []string{"#3b82f6", "#06b6d4", "#10b981", "#f59e0b", "#8b5cf6"}

// Scenes maps each timeline event to a scene, cycling through the palette.
// An empty timeline yields a single placeholder scene.
func Scenes(timeline []TimelineEvent) []SceneDescriptor {
	if len(timeline) == 0 {
		return []SceneDescriptor{{
			Title:       "Your Future Journey",
			Description: "Your personalized timeline is being prepared...",
			Color:       sceneColors[0],
		}}
	}
	scenes := make([]SceneDescriptor, len(timeline))
	for i, ev := range timeline {
		title := ev.Title
		if title == "" {
			title = fmt.Sprintf("Year %d", ev.Year)
		}
		desc := ev.Description
		if desc == "" {
			desc = "Your future unfolds..."
		}
		scenes[i] = SceneDescriptor{
			Title:       title,
			Description: desc,
			Color:       sceneColors[i%len(sceneColors)],
			Year:        ev.Year,
		}
	}
	return scenes
}
