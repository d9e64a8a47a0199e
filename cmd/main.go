package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"net/http/pprof"
	"os"
	"reflect"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/go-tooling/pkg/logs"
	"github.com/aukilabs/go-tooling/pkg/metrics"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/segmentio/encoding/json"
	"github.com/veldtlabs/veldt/featureflag"
	"github.com/veldtlabs/veldt/geom"
	veldthttp "github.com/veldtlabs/veldt/http"
	"github.com/veldtlabs/veldt/models"
	"github.com/veldtlabs/veldt/spatial"
	"github.com/veldtlabs/veldt/terrain"
)

var (
	// The Veldt version number. Set at build.
	version = "v0.3.0"

	infoGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name:        "veldt_info",
		Help:        "Veldt information.",
		ConstLabels: prometheus.Labels{"version": version},
	})
)

// This will effectively disable obfuscation of the config struct. Without it, the keys would get obfuscated causing the cli package to generate garbled command-line options.
// https://github.com/burrowers/garble/issues/403
var _ = reflect.TypeOf(config{})

type config struct {
	Addr          string        `cli:""        env:"VELDT_ADDR"           help:"Listening address for the service endpoints."`
	AdminAddr     string        `cli:""        env:"VELDT_ADMIN_ADDR"     help:"Admin listening address."`
	LogLevel      string        `cli:""        env:"VELDT_LOG_LEVEL"      help:"Log level (debug|info|warning|error)."`
	LogIndent     bool          `cli:""        env:"VELDT_LOG_INDENT"     help:"Indent logs."`
	FrameDuration time.Duration `cli:",hidden" env:"VELDT_FRAME_DURATION" help:"The duration of a simulation frame."`
	WorldFile     string        `cli:""        env:"VELDT_WORLD_FILE"     help:"Height-field asset file. A procedural world is generated when empty."`
	TreeDepth     int           `cli:",hidden" env:"VELDT_TREE_DEPTH"     help:"Spatial index depth, root included."`
	BodyCount     int           `cli:",hidden" env:"VELDT_BODY_COUNT"     help:"The number of wandering demo bodies."`
	FeatureFlags  []string      `cli:",hidden" env:"VELDT_FEATURE_FLAGS"  help:"Comma separated feature flags"`
	Version       bool          `cli:""        env:"-"                    help:"Show version."`
	Help          bool          `cli:""        env:"-"                    help:"Show help."`
}

// worldAsset is the decoded height-field asset: a vertex grid of heights
// in world height units and a parallel texture-index grid.
type worldAsset struct {
	Cols     int       `json:"cols"`
	Rows     int       `json:"rows"`
	ScaleX   float32   `json:"scale_x"`
	ScaleZ   float32   `json:"scale_z"`
	Heights  []float32 `json:"heights"`
	Textures []uint8   `json:"textures"`
}

func main() {
	conf := config{
		Addr:          ":4600",
		AdminAddr:     ":18290",
		LogLevel:      logs.InfoLevel.String(),
		FrameDuration: time.Millisecond * 33,
		TreeDepth:     5,
		BodyCount:     64,
	}

	// set the information gauge to 1, useful for SUM query
	infoGauge.Set(1)

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Starts the Veldt world daemon.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	logs.SetLevel(logs.ParseLevel(conf.LogLevel))
	logs.Encoder = json.Marshal
	if conf.LogIndent {
		logs.Encoder = func(v any) ([]byte, error) {
			return json.MarshalIndent(v, "", "  ")
		}
	}

	errors.Encoder = json.Marshal

	hf, err := loadHeightField(conf.WorldFile)
	if err != nil {
		logs.Fatal(errors.New("loading the height field failed").Wrap(err))
	}

	flags := featureflag.New(conf.FeatureFlags)
	idx, err := spatial.NewIndex(hf.Bounds(), conf.TreeDepth,
		spatial.WithLineOfSight(hf.InLineOfSight),
		spatial.WithFlags(flags),
	)
	if err != nil {
		logs.Fatal(errors.New("building the spatial index failed").Wrap(err))
	}

	tiles := hf.BuildTiles()
	for _, t := range tiles {
		idx.Insert(t)
	}

	world := newWorld(idx, hf, tiles, conf.BodyCount)

	instanceUUID := uuid.NewString()
	logs.WithTag("version", version).
		WithTag("log_level", conf.LogLevel).
		WithTag("instance_uuid", instanceUUID).
		WithTag("world_width", hf.Bounds().Width()).
		WithTag("world_depth", hf.Bounds().Depth()).
		WithTag("tree_depth", conf.TreeDepth).
		WithTag("tiles", len(tiles)).
		Info("starting veldt daemon")

	go world.run(ctx, conf.FrameDuration)

	var service http.ServeMux
	service.Handle("/health", veldthttp.HandleWithCORS(http.HandlerFunc(veldthttp.HandleHealthCheck)))
	service.Handle("/version", veldthttp.HandleWithCORS(veldthttp.HandleVersion(fmt.Sprintf("%s %s", version, instanceUUID))))
	service.Handle("/ready", veldthttp.HandleWithCORS(veldthttp.HandleReadyCheck(world.ready)))

	var admin http.ServeMux
	admin.Handle("/metrics", promhttp.Handler())
	admin.HandleFunc("/health", veldthttp.HandleHealthCheck)
	admin.Handle("/debug/spatial", veldthttp.HandleDebugInfo(idx))
	admin.HandleFunc("/debug/pprof/", pprof.Index)
	admin.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	admin.HandleFunc("/debug/pprof/profile", pprof.Profile)
	admin.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	admin.HandleFunc("/debug/pprof/trace", pprof.Trace)
	admin.Handle("/debug/pprof/goroutine", pprof.Handler("goroutine"))
	admin.Handle("/debug/pprof/heap", pprof.Handler("heap"))

	veldthttp.ListenAndServe(ctx,
		&http.Server{Addr: conf.Addr, Handler: metrics.HTTPHandler(&service,
			veldthttp.MetricsPathFormatter)},
		&http.Server{Addr: conf.AdminAddr, Handler: &admin},
	)
}

func loadHeightField(file string) (*terrain.HeightField, error) {
	if file == "" {
		return proceduralHeightField()
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.New("reading world file failed").
			WithTag("file_name", file).
			Wrap(err)
	}

	var asset worldAsset
	if err := json.Unmarshal(raw, &asset); err != nil {
		return nil, errors.New("decoding world file failed").
			WithTag("file_name", file).
			Wrap(err)
	}

	return terrain.NewHeightField(asset.Heights, asset.Textures, asset.Cols, asset.Rows, asset.ScaleX, asset.ScaleZ)
}

// proceduralHeightField builds a gentle 65x65 sine-hill terrain so the
// daemon runs without an asset file.
func proceduralHeightField() (*terrain.HeightField, error) {
	const size = 65
	heights := make([]float32, size*size)
	textures := make([]uint8, size*size)
	for z := 0; z < size; z++ {
		for x := 0; x < size; x++ {
			h := 6*math.Sin((float64)(x)*0.25) + 4*math.Cos((float64)(z)*0.35)
			heights[z*size+x] = (float32)(h)
			if h > 4 {
				textures[z*size+x] = 1
			}
		}
	}
	return terrain.NewHeightField(heights, textures, size, size, 4, 4)
}

// world owns the demo simulation state. It plays the excluded frame
// loop: refresh bounds, cull, resolve contacts, all on one goroutine.
type world struct {
	idx    *spatial.Index
	hf     *terrain.HeightField
	tiles  []*terrain.Tile
	bodies []*body
	batch  spatial.Batch

	// read by the readiness handler on server goroutines
	frames atomic.Uint64
}

func newWorld(idx *spatial.Index, hf *terrain.HeightField, tiles []*terrain.Tile, bodyCount int) *world {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	bounds := hf.Bounds()

	var ids models.SequentialIDGenerator
	bodies := make([]*body, 0, bodyCount)
	for i := 0; i < bodyCount; i++ {
		x := bounds.MinX + rng.Float32()*bounds.Width()
		z := bounds.MinZ + rng.Float32()*bounds.Depth()
		b := newBody(ids.New(), geom.NewVector3f(x, hf.AltitudeAt(x, z)+2, z), 1, rng)
		bodies = append(bodies, b)
	}

	return &world{
		idx:    idx,
		hf:     hf,
		tiles:  tiles,
		bodies: bodies,
	}
}

func (w *world) ready() bool {
	return w.frames.Load() > 0
}

func (w *world) run(ctx context.Context, frameDuration time.Duration) {
	for _, b := range w.bodies {
		w.idx.Insert(b)
	}

	ticker := time.NewTicker(frameDuration)
	defer ticker.Stop()

	dt := (float32)(frameDuration.Seconds())
	bounds := w.idx.Bounds()
	center := bounds.Center()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		// update phase: the move invalidates node membership, so each
		// moved body is re-registered before the cull pass
		for _, b := range w.bodies {
			w.idx.Remove(b)
			b.step(dt, bounds)
			w.idx.Insert(b)
		}

		// contact phase
		for _, b := range w.bodies {
			hits := w.idx.QueryRange(b.position, b.radius*4, spatial.RangeQuery{
				Categories: models.MaskTerrain,
				Exclude:    b,
			})
			for _, hit := range hits {
				tile, ok := hit.(*terrain.Tile)
				if !ok {
					continue
				}
				if bounce := terrain.TestContact(tile, b); (bounce != geom.Vector3f{}) {
					b.AddForce(bounce)
				}
			}
		}

		// cull phase with a slow orbit camera around the world center
		angle := (float64)(w.frames.Load()) * 0.005
		eye := geom.Vector3f{
			X: center.X + (float32)(math.Cos(angle))*bounds.Width()*0.45,
			Y: 40,
			Z: center.Z + (float32)(math.Sin(angle))*bounds.Depth()*0.45,
		}
		cam := spatial.NewFrustum(eye, geom.Sub(center, eye), geom.Vector3f{Y: 1},
			70, 50, 0.5, bounds.Width())
		w.idx.CullScene(cam)

		// the ordered batch is what a render phase would submit
		w.batch.Collect(w.idx, models.MaskAll)

		w.frames.Add(1)
	}
}
