package main

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/thepudds/probemap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	m, err := probemap.New[string, int](
		probemap.WithCapacity(probemap.DefaultCapacity),
		probemap.WithLoadFactor(probemap.DefaultLoadFactor),
		probemap.WithLogger(logger),
	)
	if err != nil {
		logger.Fatal("new map", zap.Error(err))
	}

	show := func(step string) {
		fmt.Printf("%-28s len=%-3d cap=%-3d %+v\n", step, m.Len(), m.Cap(), m.Stats())
	}

	keys := []string{"a", "b", "c", "d", "e", "f"}
	for i, k := range keys {
		m.Put(k, i)
		show(fmt.Sprintf("put %s=%d", k, i))
	}

	prev, ok := m.Put("a", 100)
	show(fmt.Sprintf("put a=100 (prev %d, %v)", prev, ok))

	v, ok := m.Remove("b")
	show(fmt.Sprintf("remove b (%d, %v)", v, ok))

	v, ok = m.Get("b")
	show(fmt.Sprintf("get b (%d, %v)", v, ok))

	m.Put("b", 200)
	v, ok = m.Get("b")
	show(fmt.Sprintf("put b=200, get b (%d, %v)", v, ok))
}
