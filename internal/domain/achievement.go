package domain

import "time"

// AchievementID identifies an achievement in the fixed catalog.
type AchievementID string

const (
	AchievementFirstSteps           AchievementID = "first-steps"
	AchievementRoundUpMaster        AchievementID = "round-up-master"
	AchievementMultiplicationMaster AchievementID = "multiplication-master"
	AchievementBalanceMaster        AchievementID = "balance-master"
	AchievementStarCollector        AchievementID = "star-collector"
	AchievementPerfectWarrior       AchievementID = "perfect-warrior"
	AchievementSpeedDemon           AchievementID = "speed-demon"
	AchievementMasterStrategist     AchievementID = "master-strategist"
)

// Achievement is one entry of the player's achievement list. Only Unlocked
// and UnlockedAt ever change, and only from locked to unlocked.
type Achievement struct {
	ID          AchievementID `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Icon        string        `json:"icon"`
	Unlocked    bool          `json:"unlocked"`
	UnlockedAt  *time.Time    `json:"unlockedAt,omitempty"`
}

// DefaultAchievements returns a fresh, fully locked copy of the catalog.
func DefaultAchievements() []Achievement {
	return []Achievement{
		{ID: AchievementFirstSteps, Name: "初出茅庐", Description: "完成第一个关卡", Icon: "🌱"},
		{ID: AchievementRoundUpMaster, Name: "破阵专家", Description: "完成所有破阵篇关卡", Icon: "⚔️"},
		{ID: AchievementMultiplicationMaster, Name: "奇兵统帅", Description: "完成所有奇兵篇关卡", Icon: "🔥"},
		{ID: AchievementBalanceMaster, Name: "粮草总督", Description: "完成所有粮草篇关卡", Icon: "⚖️"},
		{ID: AchievementStarCollector, Name: "摘星者", Description: "收集50颗星星", Icon: "⭐"},
		{ID: AchievementPerfectWarrior, Name: "完美战士", Description: "获得3星评价完成任意关卡", Icon: "💎"},
		{ID: AchievementSpeedDemon, Name: "神速将军", Description: "30秒内完成一个关卡", Icon: "⚡"},
		{ID: AchievementMasterStrategist, Name: "卧龙", Description: "达到卧龙等级", Icon: "🐉"},
	}
}

// MasteryAchievement returns the mastery achievement for a mode.
func MasteryAchievement(mode GameMode) (AchievementID, bool) {
	switch mode {
	case ModeRoundUp:
		return AchievementRoundUpMaster, true
	case ModeMultiplication:
		return AchievementMultiplicationMaster, true
	case ModeBalance:
		return AchievementBalanceMaster, true
	}
	return "", false
}
