package grading

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

// Random 随机源。*rand.Rand 满足该接口，测试中可注入固定种子。
type Random interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// LessonItems 一节课的全部题目
type LessonItems struct {
	LessonID uint
	Items    []Item
}

// PoolItem 抽样池中的一道题，ItemIndex 从 1 开始
type PoolItem struct {
	LessonID  uint
	ItemIndex int
	Item      Item
}

// PresentedItem 下发给客户端的题目。
// ID 只用于客户端关联，重新评分依赖回传的 LessonID + ItemIndex。
type PresentedItem struct {
	ID        int            `json:"id"`
	LessonID  uint           `json:"lesson_id"`
	ItemIndex int            `json:"item_index"`
	Prompt    string         `json:"prompt"`
	QType     Kind           `json:"qtype"`
	Payload   map[string]any `json:"payload"`
}

// Assembler 随机组卷
type Assembler struct {
	mu  sync.Mutex
	rng Random
}

func NewAssembler(rng Random) *Assembler {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Assembler{rng: rng}
}

// BuildPool 把多节课的题目展开为抽样池
func BuildPool(lessons []LessonItems) []PoolItem {
	var pool []PoolItem
	for _, l := range lessons {
		for i, it := range l.Items {
			pool = append(pool, PoolItem{LessonID: l.LessonID, ItemIndex: i + 1, Item: it})
		}
	}
	return pool
}

// BuildRandomQuiz 无放回均匀抽取 min(size, len(pool)) 道题并生成展示数据
func (a *Assembler) BuildRandomQuiz(pool []PoolItem, size int) []PresentedItem {
	a.mu.Lock()
	defer a.mu.Unlock()

	sampled := a.sample(pool, size)
	out := make([]PresentedItem, 0, len(sampled))
	for i, p := range sampled {
		qtype, payload := a.present(p.Item)
		out = append(out, PresentedItem{
			ID:        i + 1,
			LessonID:  p.LessonID,
			ItemIndex: p.ItemIndex,
			Prompt:    p.Item.Prompt,
			QType:     qtype,
			Payload:   payload,
		})
	}
	return out
}

func (a *Assembler) sample(pool []PoolItem, size int) []PoolItem {
	n := len(pool)
	if size <= 0 || n == 0 {
		return nil
	}
	k := size
	if k > n {
		k = n
	}
	// 部分 Fisher-Yates
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	out := make([]PoolItem, 0, k)
	for i := 0; i < k; i++ {
		j := i + a.rng.Intn(n-i)
		idx[i], idx[j] = idx[j], idx[i]
		out = append(out, pool[idx[i]])
	}
	return out
}

func (a *Assembler) present(it Item) (Kind, map[string]any) {
	switch it.Kind {
	case KindMCQ:
		opts := it.Options
		if opts == nil {
			opts = []any{}
		}
		return KindMCQ, map[string]any{"options": opts}
	case KindTF:
		return KindTF, map[string]any{}
	case KindBuild:
		return KindBuild, map[string]any{"tokens": a.shuffledTiles(it)}
	default:
		// 无法识别的题型按填空题展示，评分时恒为错误
		return KindFill, map[string]any{"blanks": 1}
	}
}

// shuffledTiles 在副本上洗牌，原题的词块与期望答案保持不变
func (a *Assembler) shuffledTiles(it Item) []string {
	var src []string
	if len(it.Tokens) > 0 {
		src = it.Tokens
	} else if len(it.Expected) > 0 {
		src = strings.Fields(it.Expected[0])
	}
	tiles := make([]string, len(src))
	copy(tiles, src)
	a.rng.Shuffle(len(tiles), func(i, j int) { tiles[i], tiles[j] = tiles[j], tiles[i] })
	return tiles
}
