package ecs

import "unsafe"

// columnSlice reinterprets the bytes backing component column col of
// chunk c (laid out per archetype a) as a []T of length count. count
// is normally a.entityCapacityPerChunk; callers that only want the
// live rows reslice with chunk.EntityCount().
func columnSlice[T any](c *Chunk, a *Archetype, col int, count int32) []T {
	off := a.offsets[col]
	return unsafe.Slice((*T)(unsafe.Pointer(&c.buffer[off])), count)
}

// SystemChunk is one archetype chunk handed to a job, restricted to
// the entity rows [BatchBegin, BatchEnd) the job runner assigned it.
type SystemChunk struct {
	chunk      *Chunk
	archetype  *Archetype
	BatchBegin int32
	BatchEnd   int32
}

// Len reports how many rows are live in the underlying chunk, before
// batch restriction.
func (sc SystemChunk) Len() int32 { return sc.chunk.header.len }

// Entities returns the batch's slice of the Entity column.
func (sc SystemChunk) Entities() []Entity {
	full := entityColumn(sc.chunk, sc.archetype)
	return full[sc.BatchBegin:sc.BatchEnd]
}

// GetArray returns the batch's slice of T's component column, or nil
// if the chunk's archetype does not carry T. A nil result is the
// normal outcome for a ReadAny/WriteAny handle against a chunk that
// matched on other grounds; queries that required T via Read/Write
// never see it. Panics only if T was never registered with w at all.
func GetArray[T any](w *World, sc SystemChunk) []T {
	id := ComponentTypeIDOf[T](w)
	col := sc.archetype.columnIndex(id)
	if col < 0 {
		return nil
	}
	full := columnSlice[T](sc.chunk, sc.archetype, col, sc.archetype.entityCapacityPerChunk)
	return full[sc.BatchBegin:sc.BatchEnd]
}

// GetWriteArray is GetArray for a writer handle: on a hit it also
// stamps the archetype's change-version row for T at this chunk's slot
// with the World's current global system version, so downstream
// consumers can tell which chunks a system's writes actually touched.
func GetWriteArray[T any](w *World, sc SystemChunk) []T {
	id := ComponentTypeIDOf[T](w)
	col := sc.archetype.columnIndex(id)
	if col < 0 {
		return nil
	}
	sc.archetype.chunkData.ChangeVersionArray(int32(col))[sc.chunk.header.listIndex] = w.systemVersion
	full := columnSlice[T](sc.chunk, sc.archetype, col, sc.archetype.entityCapacityPerChunk)
	return full[sc.BatchBegin:sc.BatchEnd]
}

// defaultBatchSize bounds how many entities a single job invocation
// processes from one chunk, so long-running jobs can still be split
// across goroutines by the caller if desired.
const defaultBatchSize = 1 << 20 // effectively "whole chunk" since chunks hold far fewer rows

// ExecuteJob runs fn once per batch of each non-empty chunk of every
// archetype q matches, passing the data context D through to fn
// unchanged. Chunks are visited in registration order; no parallelism is
// implied — callers wanting concurrent execution spawn goroutines
// themselves, fn just needs to be safe to call that way.
func ExecuteJob[D any](w *World, q *EntityQuery, data D, fn func(data D, sc SystemChunk)) {
	for _, a := range q.matchingArchetypes {
		n := a.chunkData.Len()
		ptrs := a.chunkData.ChunkPtrArray()
		for i := int32(0); i < n; i++ {
			c := ptrs[i]
			count := c.header.len
			if count == 0 {
				continue
			}
			begin := int32(0)
			for begin < count {
				end := begin + defaultBatchSize
				if end > count {
					end = count
				}
				fn(data, SystemChunk{chunk: c, archetype: a, BatchBegin: begin, BatchEnd: end})
				begin = end
			}
		}
	}
}
