package main

import (
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"example.com/edsign/pkg/armor"
	"example.com/edsign/pkg/container"
	"example.com/edsign/pkg/crypto/sign/eddsa"
	"example.com/edsign/pkg/keyring"
	"example.com/edsign/pkg/signer"
	"example.com/edsign/pkg/util/perm"
	"example.com/edsign/pkg/util/random"
	"example.com/edsign/pkg/util/securemem"
	"example.com/edsign/pkg/vectors"
)

var outPath string

func writeOut(b []byte) error {
	if outPath == "" {
		_, err := os.Stdout.Write(b)
		return err
	}
	f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = f.Write(b)
	return err
}

func fatalIf(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
func fatalf(format string, a ...interface{}) { fmt.Fprintf(os.Stderr, format+"\n", a...); os.Exit(1) }

func usage() {
	fmt.Fprintln(os.Stderr, "usage: edsign keygen|sign|verify|vectors|envelope [flags]")
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}
	switch os.Args[1] {
	case "keygen":
		keygen(os.Args[2:])
	case "sign":
		sign(os.Args[2:])
	case "verify":
		verify(os.Args[2:])
	case "vectors":
		genVectors(os.Args[2:])
	case "envelope":
		envelope(os.Args[2:])
	default:
		usage()
	}
}

// readMessage returns the message bytes: positional file or stdin.
func readMessage(fs *flag.FlagSet) []byte {
	if rest := fs.Args(); len(rest) > 0 && rest[0] != "-" {
		data, err := os.ReadFile(rest[0])
		fatalIf(err)
		return data
	}
	data, err := io.ReadAll(os.Stdin)
	fatalIf(err)
	return data
}

// loadSeed resolves the private seed from -seed hex or a -key file
// (base64 or armored). The caller destroys the returned secret.
func loadSeed(seedHex, keyFile string) *securemem.Secret {
	switch {
	case seedHex != "":
		raw, err := hex.DecodeString(seedHex)
		fatalIf(err)
		if len(raw) != eddsa.SeedSize {
			fatalf("seed is %d bytes (want %d)", len(raw), eddsa.SeedSize)
		}
		return securemem.New(raw)
	case keyFile != "":
		fatalIf(perm.Check0600(keyFile))
		data, err := os.ReadFile(keyFile)
		fatalIf(err)
		if raw, aerr := armor.DecodeTyped(data, armor.TypePrivateKey); aerr == nil {
			return securemem.New(raw)
		}
		raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
		fatalIf(err)
		if len(raw) != eddsa.SeedSize {
			fatalf("key file holds %d bytes (want %d)", len(raw), eddsa.SeedSize)
		}
		return securemem.New(raw)
	default:
		fatalf("missing -seed or -key")
	}
	return nil
}

func keygen(args []string) {
	fs := flag.NewFlagSet("keygen", flag.ExitOnError)
	var seedHex string
	var out string
	var armorOut bool
	var ringPath string
	fs.StringVar(&seedHex, "seed", "", "derive from a fixed 32-byte hex seed instead of random")
	fs.StringVar(&out, "out", "", "file prefix to write keys (*.pub / *.key)")
	fs.BoolVar(&armorOut, "armor", false, "print armored key blocks instead of base64")
	fs.StringVar(&ringPath, "keyring", "", "record the key in this keyring file (requires -out)")
	fatalIf(fs.Parse(args))

	var seed, pub []byte
	var err error
	if seedHex != "" {
		raw, derr := hex.DecodeString(seedHex)
		fatalIf(derr)
		pub, err = eddsa.DerivePublicKey(raw)
		fatalIf(err)
		seed = raw
	} else {
		seed, pub, err = eddsa.NewEngine().Generate()
		fatalIf(err)
	}
	secret := securemem.New(seed)
	defer secret.Destroy()

	keyID := eddsa.KeyID(pub)
	pubB64 := base64.StdEncoding.EncodeToString(pub)
	privB64 := base64.StdEncoding.EncodeToString(secret.Bytes())

	// Armored and base64 outputs are exclusive: the seed lands on disk in
	// exactly one encoding.
	keyPath := out + ".key"
	if armorOut {
		headers := map[string]string{"KeyID": keyID}
		armPub, aerr := armor.Encode(armor.TypePublicKey, pub, headers)
		fatalIf(aerr)
		armPriv, aerr := armor.Encode(armor.TypePrivateKey, secret.Bytes(), headers)
		fatalIf(aerr)
		if out == "" {
			os.Stdout.Write(armPub)
			os.Stdout.Write(armPriv)
		} else {
			keyPath = out + ".key.asc"
			fatalIf(os.WriteFile(out+".pub.asc", armPub, 0o644))
			fatalIf(perm.WriteFile0600(keyPath, armPriv))
			fmt.Printf("KEYID=%s\n", keyID)
		}
	} else if out == "" {
		fmt.Printf("KEYID=%s\nPUBLIC=%s\nPRIVATE=%s\n", keyID, pubB64, privB64)
	} else {
		writeKeyFiles(out, pubB64, privB64)
		fmt.Printf("KEYID=%s\n", keyID)
	}
	if ringPath != "" {
		if out == "" {
			fatalf("-keyring requires -out")
		}
		fatalIf(keyring.Add(ringPath, keyID, pub, keyPath))
	}
}

func sign(args []string) {
	fs := flag.NewFlagSet("sign", flag.ExitOnError)
	var seedHex, keyFile string
	var armorOut bool
	fs.StringVar(&seedHex, "seed", "", "32-byte hex seed")
	fs.StringVar(&keyFile, "key", "", "private key file (base64 or armored)")
	fs.BoolVar(&armorOut, "armor", false, "armored signature output (default base64)")
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	fatalIf(fs.Parse(args))

	secret := loadSeed(seedHex, keyFile)
	defer secret.Destroy()
	message := readMessage(fs)

	sig, err := eddsa.Sign(secret.Bytes(), message)
	fatalIf(err)

	if armorOut {
		pub, _ := eddsa.DerivePublicKey(secret.Bytes())
		arm, aerr := armor.Encode(armor.TypeSignature, sig, map[string]string{"KeyID": eddsa.KeyID(pub)})
		fatalIf(aerr)
		fatalIf(writeOut(arm))
		return
	}
	fatalIf(writeOut([]byte(base64.StdEncoding.EncodeToString(sig) + "\n")))
}

func verify(args []string) {
	fs := flag.NewFlagSet("verify", flag.ExitOnError)
	var pkB64, sigFile string
	fs.StringVar(&pkB64, "pk", "", "public key (raw) base64")
	fs.StringVar(&sigFile, "sig", "", "signature file (base64 or armored)")
	fatalIf(fs.Parse(args))

	if pkB64 == "" {
		fatalf("missing -pk")
	}
	if sigFile == "" {
		fatalf("missing -sig")
	}
	pub, err := base64.StdEncoding.DecodeString(pkB64)
	fatalIf(err)
	sigData, err := os.ReadFile(sigFile)
	fatalIf(err)

	sig, aerr := armor.DecodeTyped(sigData, armor.TypeSignature)
	if aerr != nil {
		sig, err = base64.StdEncoding.DecodeString(strings.TrimSpace(string(sigData)))
		fatalIf(err)
	}
	message := readMessage(fs)

	if !eddsa.Verify(pub, message, sig) {
		fatalf("signature invalid")
	}
	fmt.Println("signature valid")
}

func genVectors(args []string) {
	fs := flag.NewFlagSet("vectors", flag.ExitOnError)
	var manifestPath, message, seedHex, format, compression string
	var bin bool
	fs.StringVar(&manifestPath, "manifest", "", "TOML manifest of suites to generate")
	fs.StringVar(&message, "message", "Test message", "message to sign (ignored with -manifest)")
	fs.StringVar(&seedHex, "seed", "", "32-byte hex seed (default: fresh random key)")
	fs.StringVar(&format, "format", "decimal", "text output format: decimal|hex|go")
	fs.BoolVar(&bin, "bin", false, "write a binary vector-set container instead of text")
	fs.StringVar(&compression, "compress", "none", "container compression: none|zlib|bzip2")
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	fatalIf(fs.Parse(args))

	engine := eddsa.NewEngine()
	var vecs []vectors.Vector
	suiteName := "adhoc"
	if manifestPath != "" {
		m, err := vectors.LoadManifest(manifestPath)
		fatalIf(err)
		var gerr error
		vecs, gerr = m.Generate(engine)
		fatalIf(gerr)
		suiteName = strings.TrimSuffix(filepath.Base(manifestPath), filepath.Ext(manifestPath))
	} else {
		var v vectors.Vector
		var err error
		if seedHex != "" {
			seed, derr := hex.DecodeString(seedHex)
			fatalIf(derr)
			v, err = vectors.FromSeed(seed, []byte(message))
		} else {
			v, err = vectors.Generate(engine, []byte(message))
		}
		fatalIf(err)
		vecs = []vectors.Vector{v}
	}

	if bin {
		if outPath == "" {
			fatalf("-bin requires -out")
		}
		f, err := os.OpenFile(outPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		fatalIf(err)
		werr := container.WriteVectors(f, suiteName, vecs, compression)
		cerr := f.Close()
		fatalIf(werr)
		fatalIf(cerr)
		return
	}

	var b strings.Builder
	for i, v := range vecs {
		if i > 0 {
			b.WriteString("\n")
		}
		if v.Name != "" {
			fmt.Fprintf(&b, "# suite: %s\n", v.Name)
		}
		switch format {
		case "decimal":
			b.WriteString(vectors.FormatDecimal(v))
		case "hex":
			b.WriteString(vectors.FormatHex(v))
		case "go":
			b.WriteString(vectors.FormatGo(v))
		default:
			fatalf("unsupported -format: %s", format)
		}
	}
	fatalIf(writeOut([]byte(b.String())))
}

func envelope(args []string) {
	fs := flag.NewFlagSet("envelope", flag.ExitOnError)
	var mode, seedHex, keyFile, pkB64, id string
	var nonce uint64
	var maxAge time.Duration
	fs.StringVar(&mode, "mode", "sign", "sign|verify")
	fs.StringVar(&seedHex, "seed", "", "32-byte hex seed (sign)")
	fs.StringVar(&keyFile, "key", "", "private key file (sign)")
	fs.StringVar(&pkB64, "pk", "", "public key base64 (verify)")
	fs.StringVar(&id, "id", "", "envelope id (default: random)")
	fs.Uint64Var(&nonce, "nonce", 1, "envelope nonce")
	fs.DurationVar(&maxAge, "maxage", signer.DefaultMaxAge, "maximum envelope age")
	fs.StringVar(&outPath, "out", "", "output file (default: stdout)")
	fatalIf(fs.Parse(args))

	cfg := signer.Config{MaxAge: maxAge}
	switch mode {
	case "sign":
		secret := loadSeed(seedHex, keyFile)
		defer secret.Destroy()
		s, err := signer.FromSeed(secret.Bytes(), cfg)
		fatalIf(err)
		if id == "" {
			rb, rerr := random.Bytes(8)
			fatalIf(rerr)
			id = hex.EncodeToString(rb)
		}
		signed, err := s.Sign(signer.Envelope{
			ID:        id,
			Payload:   readMessage(fs),
			Nonce:     nonce,
			Timestamp: time.Now().Unix(),
		})
		fatalIf(err)
		out, err := json.MarshalIndent(signed, "", "  ")
		fatalIf(err)
		fatalIf(writeOut(append(out, '\n')))
	case "verify":
		if pkB64 == "" {
			fatalf("missing -pk")
		}
		pub, err := base64.StdEncoding.DecodeString(pkB64)
		fatalIf(err)
		var signed signer.SignedEnvelope
		fatalIf(json.Unmarshal(readMessage(fs), &signed))
		fatalIf(signer.Verify(pub, signed, cfg))
		fmt.Println("envelope valid")
	default:
		fatalf("unsupported -mode: %s", mode)
	}
}

func writeKeyFiles(prefix, pubB64, privB64 string) {
	_ = os.MkdirAll(filepath.Dir(prefix), 0o755)
	fatalIf(os.WriteFile(prefix+".pub", []byte(pubB64+"\n"), 0o644))
	fatalIf(perm.WriteFile0600(prefix+".key", []byte(privB64+"\n")))
}
