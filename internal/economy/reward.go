package economy

import (
	"context"
	"slices"
	"strconv"

	"github.com/vovakirdan/glitch-jump/internal/chance"
)

// RewardKind tells what a mystery box contained.
type RewardKind int

const (
	RewardNone RewardKind = iota
	RewardSkin
	RewardCoins
)

func (k RewardKind) String() string {
	switch k {
	case RewardSkin:
		return "skin"
	case RewardCoins:
		return "coins"
	default:
		return "none"
	}
}

// Reward is the outcome of opening a mystery box.
type Reward struct {
	Opened  bool
	Kind    RewardKind
	Skin    Skin // set for RewardSkin
	Coins   int  // set for RewardCoins
	Boxes   int  // boxes left
	Balance int  // coin balance after the reward
}

// OpenMysteryBoxReward opens one box and grants its content: while any
// skin is still locked there is a configured chance (70% by default) to
// unlock one of them uniformly at random, otherwise a fixed coin refund.
// Consuming the box and granting the reward are a single write.
func (s *Store) OpenMysteryBoxReward(ctx context.Context) Reward {
	s.mu.Lock()
	defer s.mu.Unlock()

	boxes, err := s.loadInt(ctx, KeyMysteryBoxes)
	if err != nil {
		return Reward{Opened: false}
	}
	balance, err := s.loadInt(ctx, KeyCoins)
	if err != nil || boxes <= 0 {
		return Reward{Opened: false, Boxes: boxes, Balance: balance}
	}
	unlocked, err := s.loadUnlocked(ctx)
	if err != nil {
		return Reward{Opened: false, Boxes: boxes, Balance: balance}
	}

	locked := s.catalog.Load().Locked(unlocked)
	reward := Reward{Opened: true, Boxes: boxes - 1, Balance: balance}
	writes := map[string]string{KeyMysteryBoxes: strconv.Itoa(boxes - 1)}

	if len(locked) > 0 && chance.Roll(s.src, s.cfg.MysteryBoxSkinChance) {
		skin := locked[s.src.Intn(len(locked))]
		reward.Kind = RewardSkin
		reward.Skin = skin
		writes[KeyUnlockedSkins] = encodeSkins(append(slices.Clone(unlocked), skin.ID))
	} else {
		reward.Kind = RewardCoins
		reward.Coins = s.cfg.MysteryBoxRefund
		reward.Balance = balance + s.cfg.MysteryBoxRefund
		writes[KeyCoins] = strconv.Itoa(reward.Balance)
	}

	if err := s.kv.SetMany(ctx, writes); err != nil {
		s.logWriteErr(KeyMysteryBoxes, err)
		return Reward{Opened: false, Boxes: boxes, Balance: balance}
	}
	return reward
}

// CloseToRecord reports whether score fell short of highScore by at most
// the given fraction. Beating or matching the record is not "close".
func CloseToRecord(score, highScore int, threshold float64) bool {
	if highScore <= 0 || score >= highScore {
		return false
	}
	return float64(score) >= float64(highScore)*(1-threshold)
}
