// Profiling:
// go build ./profile/entities
// go tool pprof -http=":8000" -nodefraction=0.001 ./entities mem.pprof

package main

import (
	"github.com/leidegre/goecs"
	"github.com/pkg/profile"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

func main() {
	count := 50
	iters := 10000
	entities := 1000
	p := profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook)
	run(count, iters, entities)
	p.Stop()
}

func run(rounds, iters, numEntities int) {
	for r := 0; r < rounds; r++ {
		w := ecs.NewWorld(ecs.WorldOptions{})
		id1 := ecs.RegisterComponent[comp1](w)
		id2 := ecs.RegisterComponent[comp2](w)
		arch := w.CreateArchetype(id1, id2)
		query := ecs.CreateQuery(w, ecs.Write[comp1](w), ecs.Read[comp2](w))

		for i := 0; i < iters; i++ {
			entities := w.CreateEntities(arch, numEntities)
			ecs.ExecuteJob(w, query, struct{}{}, func(_ struct{}, sc ecs.SystemChunk) {
				c1 := ecs.GetWriteArray[comp1](w, sc)
				c2 := ecs.GetArray[comp2](w, sc)
				for i := range c1 {
					c1[i].V += c2[i].V
					c1[i].W += c2[i].W
				}
			})
			for _, e := range entities {
				w.DestroyEntity(e)
			}
			w.ProcessRemovals()
		}
	}
}
