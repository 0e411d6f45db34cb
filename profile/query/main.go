// Profiling:
// go build ./profile/query
// go tool pprof -http=":8000" -nodefraction=0.001 ./query cpu.prof

package main

import (
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/leidegre/goecs"
)

type comp1 struct {
	V int64
	W int64
}

type comp2 struct {
	V int64
	W int64
}

type comp3 struct {
	V int64
	W int64
}

type comp4 struct {
	V int64
	W int64
}

type comp5 struct {
	V int64
	W int64
}

type comp6 struct {
	V int64
	W int64
}

func main() {
	f, _ := os.Create("cpu.prof")
	_ = pprof.StartCPUProfile(f)
	defer pprof.StopCPUProfile()

	count := 50
	iters := 10000
	entities := 100000
	run(count, iters, entities)

	memFile, _ := os.Create("mem.prof")
	defer memFile.Close()
	runtime.GC()
	_ = pprof.WriteHeapProfile(memFile)
}

func run(rounds, iters, numEntities int) {
	for r := 0; r < rounds; r++ {
		w := ecs.NewWorld(ecs.WorldOptions{InitialEntityCapacity: numEntities})
		id1 := ecs.RegisterComponent[comp1](w)
		id2 := ecs.RegisterComponent[comp2](w)
		id3 := ecs.RegisterComponent[comp3](w)
		id4 := ecs.RegisterComponent[comp4](w)
		id5 := ecs.RegisterComponent[comp5](w)
		id6 := ecs.RegisterComponent[comp6](w)
		arch := w.CreateArchetype(id1, id2, id3, id4, id5, id6)
		query := ecs.CreateQuery(w, ecs.Write[comp1](w), ecs.Read[comp2](w),
			ecs.ReadAny[comp3](w), ecs.ReadAny[comp4](w), ecs.ReadAny[comp5](w), ecs.ReadAny[comp6](w))
		w.CreateEntities(arch, numEntities)

		for i := 0; i < iters; i++ {
			ecs.ExecuteJob(w, query, struct{}{}, func(_ struct{}, sc ecs.SystemChunk) {
				c1 := ecs.GetWriteArray[comp1](w, sc)
				c2 := ecs.GetArray[comp2](w, sc)
				for i := range c1 {
					c1[i].V += c2[i].V
					c1[i].W += c2[i].W
				}
			})
		}
	}
}
