// Stress test comparing BVH queries against brute-force scans
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"clothsim/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
)

func main() {
	queries := flag.Int("queries", 2000, "ray and sphere queries per scene")
	seed := flag.Int64("seed", 42, "random seed")
	flag.Parse()

	// Test various object counts
	testCounts := []int{100, 500, 1000, 2000, 5000, 10000}

	mismatches := 0
	for _, count := range testCounts {
		mismatches += testQueries(rand.New(rand.NewSource(*seed)), count, *queries)
	}
	if mismatches > 0 {
		fmt.Printf("\n%d mismatches between BVH and brute force\n", mismatches)
		os.Exit(1)
	}
}

func testQueries(rng *rand.Rand, count, queries int) int {
	// Spawn in a cube, size scales with count to keep density reasonable
	spawnSize := 50.0 + float64(count)/100.0

	objects := make([]physics.Object, count)
	for i := range objects {
		pos := mgl64.Vec3{
			rng.Float64()*spawnSize - spawnSize/2,
			rng.Float64()*spawnSize - spawnSize/2,
			rng.Float64()*spawnSize - spawnSize/2,
		}
		s, err := physics.NewSphere(0.5+rng.Float64()*0.5, pos)
		if err != nil {
			panic(err)
		}
		objects[i] = s
	}

	buildStart := time.Now()
	bvh, err := physics.BuildBVH(objects)
	if err != nil {
		fmt.Printf("%5d objects: BVH ERROR: %v\n", count, err)
		return 1
	}
	buildTime := time.Since(buildStart)

	rays := make([]physics.Ray, queries)
	probes := make([]*physics.Sphere, queries)
	for i := range rays {
		origin := mgl64.Vec3{spawnSize, rng.Float64()*spawnSize - spawnSize/2, rng.Float64()*spawnSize - spawnSize/2}
		target := mgl64.Vec3{0, rng.Float64()*spawnSize - spawnSize/2, rng.Float64()*spawnSize - spawnSize/2}
		r, err := physics.NewRay(origin, target.Sub(origin))
		if err != nil {
			panic(err)
		}
		rays[i] = r
		probes[i] = objects[rng.Intn(count)].(*physics.Sphere)
	}

	// Time BVH
	bvhStart := time.Now()
	bvhRays := make([]physics.Intersection, queries)
	bvhSpheres := make([]physics.Intersection, queries)
	for i := range rays {
		bvhRays[i] = bvh.IntersectRay(rays[i])
		bvhSpheres[i] = bvh.IntersectSphere(probes[i])
	}
	bvhTime := time.Since(bvhStart)

	// Time brute force
	linStart := time.Now()
	mismatches := 0
	hits := 0
	for i := range rays {
		r := physics.LinearIntersectRay(objects, rays[i])
		s := physics.LinearIntersectSphere(objects, probes[i])
		if r.Hit != bvhRays[i].Hit || r.Index != bvhRays[i].Index {
			mismatches++
		}
		if s.Hit != bvhSpheres[i].Hit || s.Index != bvhSpheres[i].Index {
			mismatches++
		}
		if r.Hit {
			hits++
		}
	}
	linTime := time.Since(linStart)

	speedup := float64(linTime) / float64(bvhTime)

	fmt.Printf("%5d objects: build %8v depth %2d | BVH %10v | linear %10v (%4d ray hits) | %.1fx speedup | %d mismatches\n",
		count, buildTime.Round(time.Microsecond), bvh.Depth(),
		bvhTime.Round(time.Microsecond), linTime.Round(time.Microsecond), hits, speedup, mismatches)
	return mismatches
}
