package testutils

import (
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/jackc/pgx/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("DBServerOptions", func() {
	It("fills in the suite defaults", func() {
		opts := DBServerOptions{}.withDefaults()
		Expect(opts.Image).To(Equal(DefaultDBImage))
		Expect(opts.Database).To(Equal("sprint3"))
		Expect(opts.Username).To(Equal("postgres"))
		Expect(opts.StartupTimeout).To(Equal(15 * time.Minute))
	})

	It("keeps explicit settings", func() {
		opts := DBServerOptions{Image: "docker.io/postgres:15", Database: "other"}.withDefaults()
		Expect(opts.Image).To(Equal("docker.io/postgres:15"))
		Expect(opts.Database).To(Equal("other"))
	})

	It("builds a connection string pgx understands", func() {
		opts := DBServerOptions{Password: "p@ss/word"}.withDefaults()
		config, err := pgx.ParseConfig(opts.connectionString("localhost", nat.Port("54321/tcp")))
		Expect(err).NotTo(HaveOccurred())
		Expect(config.Host).To(Equal("localhost"))
		Expect(config.Port).To(Equal(uint16(54321)))
		Expect(config.Database).To(Equal("sprint3"))
		Expect(config.User).To(Equal("postgres"))
		Expect(config.Password).To(Equal("p@ss/word"))
		Expect(config.TLSConfig).To(BeNil())
	})
})
